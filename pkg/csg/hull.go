package csg

import (
	"github.com/golang/geo/r3"
	quickhull "github.com/markus-wa/quickhull-go/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// HullFromPoints returns the convex hull of points as a solid of outward
// facing triangles. A nil cfg means DefaultConfig.
func HullFromPoints(points []Vector3d, cfg *Config) (out *CSG, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	pts := uniquePoints(points, cfg.DuplicateEpsilon)
	if len(pts) < 4 {
		return nil, errors.Wrapf(ErrEmptyHull, "%d distinct points", len(pts))
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.Wrapf(ErrEmptyHull, "quickhull: %v", r)
		}
	}()
	vecs := lo.Map(pts, func(p Vector3d, _ int) r3.Vector { return r3.Vector{X: p.X, Y: p.Y, Z: p.Z} })
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(vecs, true, true, cfg.Epsilon)
	if len(ch.Indices) < 12 || len(ch.Indices)%3 != 0 {
		return nil, errors.Wrapf(ErrEmptyHull, "quickhull returned %d indices", len(ch.Indices))
	}

	center := lo.Reduce(pts, func(acc Vector3d, p Vector3d, _ int) Vector3d { return acc.Add(p) }, Zero).
		DivScalar(float64(len(pts)))
	meta := NewMetadata()
	polygons := make([]*Polygon, 0, len(ch.Indices)/3)
	for i := 0; i < len(ch.Indices); i += 3 {
		a, b, c := pts[ch.Indices[i]], pts[ch.Indices[i+1]], pts[ch.Indices[i+2]]
		p, err := PolygonFromPointsMeta([]Vector3d{a, b, c}, meta)
		if err != nil {
			continue
		}
		if p.Plane.Distance(center) > 0 {
			p.Flip()
		}
		polygons = append(polygons, p)
	}
	if len(polygons) < 4 {
		return nil, errors.Wrapf(ErrEmptyHull, "only %d valid faces", len(polygons))
	}
	out = FromPolygonsConfig(cfg, polygons)
	out.triangulated = true
	return out, nil
}

func uniquePoints(points []Vector3d, eps float64) []Vector3d {
	out := make([]Vector3d, 0, len(points))
	for _, p := range points {
		if !lo.ContainsBy(out, func(q Vector3d) bool { return NearlyEqual(p, q, eps) }) {
			out = append(out, p)
		}
	}
	return out
}

func (c *CSG) allPoints() []Vector3d {
	return lo.FlatMap(c.polygons, func(p *Polygon, _ int) []Vector3d { return p.Points() })
}

// Hull returns the convex hull of c. The result keeps c's color. If no
// hull can be built, the failure is reported and an empty solid returned.
func (c *CSG) Hull() *CSG {
	return c.HullWith()
}

// HullWith returns the convex hull of c together with others.
func (c *CSG) HullWith(others ...*CSG) *CSG {
	pts := c.allPoints()
	for _, o := range others {
		pts = append(pts, o.allPoints()...)
	}
	h, err := HullFromPoints(pts, c.cfg)
	if err != nil {
		c.cfg.report(Diagnostic{Stage: StageHull, Message: "convex hull failed", Err: err})
		return c.derive(nil)
	}
	h.meta = c.meta
	if col, ok := c.meta.Color(); ok {
		h.SetColor(col)
	}
	h.name = c.name
	return h
}

// HullAll returns the convex hull of every solid in csgs.
func HullAll(csgs ...*CSG) *CSG {
	if len(csgs) == 0 {
		return New(nil)
	}
	return csgs[0].HullWith(csgs[1:]...)
}
