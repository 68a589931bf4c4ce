package csg

import (
	"image/color"
	"log/slog"
	"runtime"

	"github.com/pkg/errors"
)

// OptType selects how boolean operations use bounding boxes to skip work.
type OptType int

const (
	// OptCSGBound skips the BSP algorithm when the operands' boxes do not meet.
	OptCSGBound OptType = iota
	// OptPolygonBound feeds only the polygons near the other operand to the BSP algorithm.
	OptPolygonBound
	// OptNone always runs the full algorithm.
	OptNone
)

var optNames = map[OptType]string{
	OptCSGBound:     "csg_bound",
	OptPolygonBound: "polygon_bound",
	OptNone:         "none",
}

func (o OptType) String() string {
	if s, ok := optNames[o]; ok {
		return s
	}
	return "unknown"
}

// ParseOptType maps a name produced by String back to its OptType.
func ParseOptType(s string) (OptType, error) {
	for k, v := range optNames {
		if v == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("csg: unknown optimization %q", s)
}

// ProgressFunc receives progress from long-running operations. intermediate
// may be nil.
type ProgressFunc func(current, total int, stage string, intermediate *CSG)

// Config carries every tunable the kernel uses. A CSG keeps the Config it
// was created with and hands it to the results of its operations.
type Config struct {
	// Epsilon is the plane classification tolerance.
	Epsilon float64
	// DuplicateEpsilon is the point coincidence tolerance for pruning.
	DuplicateEpsilon float64
	// ManifoldTolerance is the distance under which a vertex is treated as
	// lying on another polygon's edge.
	ManifoldTolerance float64
	OptType           OptType
	// PreventNonManifoldTriangles runs T-junction repair before triangulating.
	PreventNonManifoldTriangles bool
	ManifoldWorkers             int
	ManifoldBatch               int
	Progress                    ProgressFunc
	Diagnostics                 DiagnosticSink
	DefaultColor                color.NRGBA
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	return &Config{
		Epsilon:           Epsilon,
		DuplicateEpsilon:  DuplicateEpsilon,
		ManifoldTolerance: 1e-9,
		OptType:           OptCSGBound,
		ManifoldWorkers:   runtime.NumCPU(),
		ManifoldBatch:     32,
		Diagnostics:       NewSlogSink(slog.Default()),
		DefaultColor:      color.NRGBA{R: 0x00, G: 0x79, B: 0x56, A: 0xff},
	}
}

// Clone returns a shallow copy that can be changed independently.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks that tolerances and pool sizes are usable.
func (c *Config) Validate() error {
	switch {
	case c.Epsilon <= 0:
		return errors.Errorf("csg: epsilon must be positive, got %g", c.Epsilon)
	case c.DuplicateEpsilon <= 0:
		return errors.Errorf("csg: duplicate epsilon must be positive, got %g", c.DuplicateEpsilon)
	case c.ManifoldTolerance <= 0:
		return errors.Errorf("csg: manifold tolerance must be positive, got %g", c.ManifoldTolerance)
	case c.ManifoldWorkers < 1:
		return errors.Errorf("csg: manifold workers must be at least 1, got %d", c.ManifoldWorkers)
	case c.ManifoldBatch < 1:
		return errors.Errorf("csg: manifold batch must be at least 1, got %d", c.ManifoldBatch)
	}
	if _, ok := optNames[c.OptType]; !ok {
		return errors.Errorf("csg: unknown optimization %d", c.OptType)
	}
	return nil
}

func (c *Config) progress(current, total int, stage string, intermediate *CSG) {
	if c.Progress != nil {
		c.Progress(current, total, stage, intermediate)
	}
}

func (c *Config) report(d Diagnostic) {
	if c.Diagnostics != nil {
		c.Diagnostics.Report(d)
	}
}
