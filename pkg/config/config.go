// Package config reads csgkit settings from TOML files.
//
// A file has two tables. [csg] holds the kernel tunables that end up in a
// csg.Config; [cli] holds the settings of the command line front end:
//
//	[csg]
//	epsilon = 1e-9
//	optimization = "csg_bound"
//	prevent_non_manifold_triangles = true
//
//	[cli]
//	kernel = "bsp"
//	timeout = "5s"
//	segments = 48
//
// Keys left out of a file keep the values of Default.
package config

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/engine"
	"github.com/chazu/csgkit/pkg/kernel"
	"github.com/chazu/csgkit/pkg/kernel/bsp"
	"github.com/chazu/csgkit/pkg/kernel/sdfx"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Kernel backend names accepted by [cli] kernel.
const (
	KernelBSP  = "bsp"
	KernelSDFX = "sdfx"
)

// Config is the decoded form of a settings file.
type Config struct {
	CSG CSG `toml:"csg"`
	CLI CLI `toml:"cli"`
}

// CSG mirrors the tunable fields of csg.Config.
type CSG struct {
	Epsilon           float64 `toml:"epsilon"`
	DuplicateEpsilon  float64 `toml:"duplicate_epsilon"`
	ManifoldTolerance float64 `toml:"manifold_tolerance"`
	// Optimization is one of "csg_bound", "polygon_bound" or "none".
	Optimization                string `toml:"optimization"`
	PreventNonManifoldTriangles bool   `toml:"prevent_non_manifold_triangles"`
	ManifoldWorkers             int    `toml:"manifold_workers"`
	ManifoldBatch               int    `toml:"manifold_batch"`
	DefaultColor                string `toml:"default_color"`
}

// CLI holds the front end settings.
type CLI struct {
	Kernel   string   `toml:"kernel"`
	Timeout  Duration `toml:"timeout"`
	Segments int      `toml:"segments"`
	// SDFXCells is the marching cubes resolution of the sdfx backend.
	SDFXCells int `toml:"sdfx_cells"`
	// Color is the fallback part color handed to the engine.
	Color    string `toml:"color"`
	LogLevel string `toml:"log_level"`
}

// Duration is a time.Duration written as a string such as "1.5s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrapf(err, "config: duration %q", b)
	}
	*d = Duration(v)
	return nil
}

// Default returns the settings used when no file is given.
func Default() *Config {
	c := csg.DefaultConfig()
	return &Config{
		CSG: CSG{
			Epsilon:                     c.Epsilon,
			DuplicateEpsilon:            c.DuplicateEpsilon,
			ManifoldTolerance:           c.ManifoldTolerance,
			Optimization:                c.OptType.String(),
			PreventNonManifoldTriangles: c.PreventNonManifoldTriangles,
			ManifoldWorkers:             c.ManifoldWorkers,
			ManifoldBatch:               c.ManifoldBatch,
			DefaultColor:                csg.HexColor(c.DefaultColor),
		},
		CLI: CLI{
			Kernel:    KernelBSP,
			Timeout:   Duration(engine.EvalTimeout),
			SDFXCells: sdfx.DefaultMeshCells,
			LogLevel:  "info",
		},
	}
}

// Open reads the settings file at path on top of Default.
func Open(path string) (*Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	defer fp.Close()
	c, err := Read(bufio.NewReader(fp))
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return c, nil
}

// Read decodes settings from r on top of Default. Unknown keys are an
// error so that typos do not go unnoticed.
func Read(r io.Reader) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, errors.New(sme.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, errors.Errorf("line %d, column %d: %s", row, col, de.Error())
		}
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadBytes is Read on an in-memory document.
func ReadBytes(b []byte) (*Config, error) {
	return Read(bytes.NewReader(b))
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return errors.Wrap(enc.Encode(c), "config: encode")
}

// Validate checks the settings that KernelConfig, Backend and Engine
// cannot recover from.
func (c *Config) Validate() error {
	if _, err := c.KernelConfig(); err != nil {
		return err
	}
	switch c.CLI.Kernel {
	case KernelBSP, KernelSDFX:
	default:
		return errors.Errorf("config: unknown kernel %q (want %q or %q)", c.CLI.Kernel, KernelBSP, KernelSDFX)
	}
	if c.CLI.Timeout < 0 {
		return errors.Errorf("config: timeout must not be negative, got %s", time.Duration(c.CLI.Timeout))
	}
	if c.CLI.Segments != 0 && c.CLI.Segments < 3 {
		return errors.Errorf("config: segments is %d, need at least 3", c.CLI.Segments)
	}
	if c.CLI.SDFXCells < 0 {
		return errors.Errorf("config: sdfx cells must not be negative, got %d", c.CLI.SDFXCells)
	}
	if c.CLI.Color != "" {
		if _, err := csg.ParseHexColor(c.CLI.Color); err != nil {
			return errors.Wrap(err, "config: cli color")
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// KernelConfig builds the csg.Config described by the [csg] table.
// Diagnostics go to slog.Default.
func (c *Config) KernelConfig() (*csg.Config, error) {
	return c.KernelConfigWithLogger(slog.Default())
}

// KernelConfigWithLogger is KernelConfig with diagnostics sent to log.
func (c *Config) KernelConfigWithLogger(log *slog.Logger) (*csg.Config, error) {
	cfg := csg.DefaultConfig()
	opt, err := csg.ParseOptType(c.CSG.Optimization)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	cfg.OptType = opt
	cfg.Epsilon = c.CSG.Epsilon
	cfg.DuplicateEpsilon = c.CSG.DuplicateEpsilon
	cfg.ManifoldTolerance = c.CSG.ManifoldTolerance
	cfg.PreventNonManifoldTriangles = c.CSG.PreventNonManifoldTriangles
	cfg.ManifoldWorkers = c.CSG.ManifoldWorkers
	cfg.ManifoldBatch = c.CSG.ManifoldBatch
	if c.CSG.DefaultColor != "" {
		col, err := csg.ParseHexColor(c.CSG.DefaultColor)
		if err != nil {
			return nil, errors.Wrap(err, "config: default color")
		}
		cfg.DefaultColor = col
	}
	if log != nil {
		cfg.Diagnostics = csg.NewSlogSink(log)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return cfg, nil
}

// Backend returns the geometry backend named by [cli] kernel. cfg is only
// used by the bsp backend.
func (c *Config) Backend(cfg *csg.Config) kernel.Kernel {
	if c.CLI.Kernel == KernelSDFX {
		k := sdfx.New()
		if c.CLI.SDFXCells > 0 {
			k.Cells = c.CLI.SDFXCells
		}
		return k
	}
	return bsp.New(cfg)
}

// Engine returns an evaluator set up from the [cli] table.
func (c *Config) Engine() *engine.Engine {
	e := engine.NewEngine()
	if c.CLI.Timeout > 0 {
		e.Timeout = time.Duration(c.CLI.Timeout)
	}
	e.Segments = c.CLI.Segments
	e.Color = c.CLI.Color
	return e
}

// Level maps [cli] log_level onto a slog level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.CLI.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.CLI.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "config: log level %q", c.CLI.LogLevel)
	}
	return l, nil
}
