// Package csg is a constructive solid geometry kernel. Solids are sets of
// planar convex polygons; union, difference and intersection are computed
// with binary space partitioning trees under a floating point tolerance.
// The package also triangulates results for export, repairs degenerate
// slivers and T-junctions, and builds convex hulls.
package csg

import (
	"image/color"

	"github.com/samber/lo"
)

// CSG is a solid: a flat list of polygons plus the configuration used by
// operations on it. Operations never modify their operands.
type CSG struct {
	polygons []*Polygon
	cfg      *Config
	meta     *Metadata
	name     string
	bounds   *Bounds

	triangulated           bool
	needsDegeneratesPruned bool
}

// New returns an empty solid using cfg. A nil cfg means DefaultConfig.
func New(cfg *Config) *CSG {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &CSG{cfg: cfg, meta: NewMetadata()}
}

// FromPolygons wraps polygons in a solid with the default configuration.
// The slice is adopted, not copied.
func FromPolygons(polygons []*Polygon) *CSG {
	c := New(nil)
	c.polygons = polygons
	return c
}

// FromPolygonsConfig wraps polygons in a solid using cfg.
func FromPolygonsConfig(cfg *Config, polygons []*Polygon) *CSG {
	c := New(cfg)
	c.polygons = polygons
	return c
}

// derive builds a result solid that inherits c's configuration and metadata.
func (c *CSG) derive(polygons []*Polygon) *CSG {
	return &CSG{polygons: polygons, cfg: c.cfg, meta: c.meta}
}

// Config returns the configuration in use.
func (c *CSG) Config() *Config { return c.cfg }

// WithConfig sets the configuration and returns c.
func (c *CSG) WithConfig(cfg *Config) *CSG {
	c.cfg = cfg
	return c
}

// OptType returns the optimization used by boolean operations.
func (c *CSG) OptType() OptType { return c.cfg.OptType }

// Optimization switches c to a private copy of its configuration using t.
func (c *CSG) Optimization(t OptType) *CSG {
	cfg := c.cfg.Clone()
	cfg.OptType = t
	c.cfg = cfg
	return c
}

// Polygons returns the polygon list. Callers must not modify it; use
// SetPolygons instead.
func (c *CSG) Polygons() []*Polygon { return c.polygons }

// SetPolygons replaces the polygon list and drops cached state.
func (c *CSG) SetPolygons(polygons []*Polygon) *CSG {
	c.polygons = polygons
	c.bounds = nil
	c.triangulated = false
	return c
}

// IsEmpty reports whether the solid has no polygons.
func (c *CSG) IsEmpty() bool { return len(c.polygons) == 0 }

// Clone deep-copies the polygons. Polygon metadata stays shared.
func (c *CSG) Clone() *CSG {
	out := c.derive(lo.Map(c.polygons, func(p *Polygon, _ int) *Polygon { return p.Clone() }))
	out.name = c.name
	out.triangulated = c.triangulated
	out.needsDegeneratesPruned = c.needsDegeneratesPruned
	return out
}

// Name returns the solid's name.
func (c *CSG) Name() string { return c.name }

// SetName names the solid and returns it.
func (c *CSG) SetName(name string) *CSG {
	c.name = name
	return c
}

// Metadata returns the solid-level property bag.
func (c *CSG) Metadata() *Metadata { return c.meta }

// Color returns the solid's color, or the configured default.
func (c *CSG) Color() color.NRGBA {
	if col, ok := c.meta.Color(); ok {
		return col
	}
	return c.cfg.DefaultColor
}

// SetColor paints the solid and all of its polygons. Polygons that shared
// metadata with another solid get their own copy first.
func (c *CSG) SetColor(col color.NRGBA) *CSG {
	c.meta = c.meta.Clone()
	c.meta.SetColor(col)
	repl := make(map[*Metadata]*Metadata)
	for _, p := range c.polygons {
		m, ok := repl[p.Meta]
		if !ok {
			m = p.Meta.Clone()
			m.SetColor(col)
			repl[p.Meta] = m
		}
		p.Meta = m
	}
	return c
}

// Bounds returns the bounding box, computing it once per polygon list.
func (c *CSG) Bounds() Bounds {
	if c.bounds != nil {
		return *c.bounds
	}
	b := BoundsOf(lo.FlatMap(c.polygons, func(p *Polygon, _ int) []Vector3d { return p.Points() }))
	c.bounds = &b
	return b
}

// Center returns the center of the bounding box.
func (c *CSG) Center() Vector3d { return c.Bounds().Center() }

// Min returns the lower corner of the bounding box.
func (c *CSG) Min() Vector3d { return c.Bounds().Min }

// Max returns the upper corner of the bounding box.
func (c *CSG) Max() Vector3d { return c.Bounds().Max }

// Size returns the extent of the bounding box.
func (c *CSG) Size() Vector3d { return c.Bounds().Size() }

// BoundingBox returns a box solid filling the bounds.
func (c *CSG) BoundingBox() *CSG {
	return c.Bounds().ToCSG().WithConfig(c.cfg)
}

// IsTriangulated reports whether every polygon is known to be a triangle.
func (c *CSG) IsTriangulated() bool { return c.triangulated }

func (c *CSG) finite() bool {
	for _, p := range c.polygons {
		for _, v := range p.Vertices {
			if !Finite(v.Pos) {
				return false
			}
		}
	}
	return true
}

// DumbUnion concatenates the polygons of both solids without any clipping.
func (c *CSG) DumbUnion(o *CSG) *CSG {
	a, b := c.Clone(), o.Clone()
	out := c.derive(append(a.polygons, b.polygons...))
	out.triangulated = c.triangulated && o.triangulated
	return out
}

// withName applies the naming rule for binary results: the left name
// survives only when both operands are named.
func (c *CSG) withName(o *CSG, out *CSG) *CSG {
	if c.name != "" && o.name != "" {
		out.name = c.name
	}
	return out
}
