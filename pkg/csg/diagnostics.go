package csg

import (
	"context"
	"log/slog"
	"sync"
)

// Stage names the kernel step that produced a diagnostic.
type Stage string

const (
	StageSplit       Stage = "split"
	StageBoolean     Stage = "boolean"
	StageTriangulate Stage = "triangulate"
	StageDegenerate  Stage = "degenerate-repair"
	StageManifold    Stage = "manifold-repair"
	StageTransform   Stage = "transform"
	StageHull        Stage = "hull"
)

// Diagnostic records geometry the kernel dropped or repaired instead of
// failing the whole operation.
type Diagnostic struct {
	Stage    Stage
	Message  string
	Polygons int
	Err      error
}

// DiagnosticSink receives diagnostics. Implementations must be safe for
// concurrent use.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// SlogSink writes diagnostics to a structured logger at warn level.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps logger. A nil logger means slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Report(d Diagnostic) {
	attrs := []slog.Attr{
		slog.String("stage", string(d.Stage)),
		slog.Int("polygons", d.Polygons),
	}
	if d.Err != nil {
		attrs = append(attrs, slog.String("err", d.Err.Error()))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, d.Message, attrs...)
}

// CollectingSink keeps every diagnostic in memory.
type CollectingSink struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (s *CollectingSink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, d)
}

// Diagnostics returns a copy of what has been collected.
func (s *CollectingSink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// ByStage returns the collected diagnostics for one stage.
func (s *CollectingSink) ByStage(stage Stage) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.Diagnostics() {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

// discardSink drops everything.
type discardSink struct{}

func (discardSink) Report(Diagnostic) {}

// Discard is a sink that ignores all diagnostics.
var Discard DiagnosticSink = discardSink{}
