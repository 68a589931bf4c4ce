// Package app runs the whole csgkit pipeline: script source is evaluated
// into a design graph, the graph is tessellated by a geometry kernel and
// the resulting meshes are flattened into JSON-friendly records.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chazu/csgkit/pkg/config"
	"github.com/chazu/csgkit/pkg/engine"
	"github.com/chazu/csgkit/pkg/graph"
	"github.com/chazu/csgkit/pkg/kernel"
	"github.com/chazu/csgkit/pkg/kernel/bsp"
	"github.com/chazu/csgkit/pkg/tessellate"
	"github.com/pkg/errors"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates scripts with one engine and one geometry kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// MeshData is the JSON-serializable form of one part's mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// Build is the unflattened output of Run.
type Build struct {
	Graph    *graph.DesignGraph
	Meshes   []*kernel.Mesh
	Errors   []engine.EvalError
	Warnings []engine.EvalWarning
}

// OK reports whether the script evaluated without errors.
func (b *Build) OK() bool { return len(b.Errors) == 0 }

// NewApp creates an App with default settings and the bsp kernel.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: bsp.New(nil),
		log:    slog.Default(),
	}
}

// New creates an App from a settings file. Kernel diagnostics and
// pipeline logs go to log; a nil log means slog.Default.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	kc, err := cfg.KernelConfigWithLogger(log)
	if err != nil {
		return nil, err
	}
	return &App{
		engine: cfg.Engine(),
		kernel: cfg.Backend(kc),
		log:    log,
	}, nil
}

// Kernel returns the geometry backend used by a.
func (a *App) Kernel() kernel.Kernel { return a.kernel }

// Run evaluates source and tessellates every part. Script errors are
// reported in the Build; the returned error is for failures the script
// cannot fix, such as a timeout or a kernel failure.
func (a *App) Run(ctx context.Context, source string) (*Build, error) {
	start := time.Now()
	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	b := &Build{Graph: res.Graph, Errors: res.Errors, Warnings: res.Warnings}
	if !b.OK() {
		a.log.Debug("script has errors", "errors", len(b.Errors))
		return b, nil
	}

	meshes, err := tessellate.TessellateContext(ctx, res.Graph, a.kernel)
	if err != nil {
		return b, errors.Wrap(err, "tessellation failed")
	}
	for _, m := range meshes {
		if m.IsEmpty() {
			a.log.Warn("part has no geometry", "part", m.PartName)
			b.Warnings = append(b.Warnings, engine.EvalWarning{
				Message: fmt.Sprintf("part %q produced no geometry", m.PartName),
			})
			continue
		}
		b.Meshes = append(b.Meshes, m)
	}
	a.log.Info("evaluated",
		"nodes", res.Graph.NodeCount(),
		"parts", len(b.Meshes),
		"warnings", len(b.Warnings),
		"elapsed", time.Since(start))
	return b, nil
}

// Evaluate takes script source and returns mesh data plus errors. It never
// fails; fatal problems are reported as errors at line 0.
func (a *App) Evaluate(source string) EvalResult {
	b, err := a.Run(context.Background(), source)
	if err != nil {
		a.log.Error("evaluate failed", "err", err)
		res := (&Build{}).Result()
		res.Errors = append(res.Errors, EvalErrorData{Message: err.Error()})
		return res
	}
	return b.Result()
}

// Result flattens b into its JSON form. Parts without a color of their
// own take one from the palette.
func (b *Build) Result() EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
	for _, e := range b.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	for _, w := range b.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	for i, m := range b.Meshes {
		color := m.Color
		if color == "" {
			color = colorPalette[i%len(colorPalette)]
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    color,
		})
	}
	return result
}
