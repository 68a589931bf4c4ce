package csg

import (
	"context"
	"math"
)

// minimum offset that ToolOffset and MinkowskiDifferenceTol act on
const minOffset = 0.001

// Minkowski returns one copy of c moved to each distinct vertex of
// traveler. Their union approximates the Minkowski sum.
func (c *CSG) Minkowski(traveler *CSG) []*CSG {
	pts := uniquePoints(traveler.allPoints(), c.cfg.DuplicateEpsilon)
	out := make([]*CSG, 0, len(pts))
	for _, p := range pts {
		out = append(out, c.MoveVec(p))
	}
	return out
}

// MinkowskiHullShape returns, for every polygon of c, the hull of traveler
// placed at each of that polygon's vertices.
func (c *CSG) MinkowskiHullShape(traveler *CSG) []*CSG {
	tp := traveler.allPoints()
	out := make([]*CSG, 0, len(c.polygons))
	for _, p := range c.polygons {
		var pts []Vector3d
		for _, v := range p.Vertices {
			for _, q := range tp {
				pts = append(pts, q.Add(v.Pos))
			}
		}
		h, err := HullFromPoints(pts, c.cfg)
		if err != nil {
			c.cfg.report(Diagnostic{Stage: StageHull, Message: "skipped polygon in minkowski hull", Polygons: 1, Err: err})
			continue
		}
		h.meta = c.meta
		out = append(out, h)
	}
	return out
}

// MinkowskiDifference removes from c the region within traveler's reach of
// the part of c that overlaps item.
func (c *CSG) MinkowskiDifference(item, traveler *CSG) *CSG {
	shapes := c.Intersect(item).MinkowskiHullShape(traveler)
	result := c
	for _, s := range shapes {
		result = result.Difference(s)
	}
	return result
}

// MinkowskiDifferenceTol is MinkowskiDifference with a sphere of diameter
// tol as the traveler. Offsets under 0.001 return c.
func (c *CSG) MinkowskiDifferenceTol(item *CSG, tol float64) *CSG {
	if math.Abs(tol) < minOffset {
		return c
	}
	return c.MinkowskiDifference(item, Sphere(Zero, tol/2, 8, 4))
}

// ToolOffset grows c by n, or shrinks it when n is negative, by sweeping a
// small sphere over its surface. The sphere diameter is capped at half the
// solid's height.
func (c *CSG) ToolOffset(n float64) *CSG {
	cut := n < 0
	n = math.Abs(n)
	if n < minOffset {
		return c
	}
	z := min(n, c.Size().Z/2)
	nozzle := Sphere(Zero, z/2, 8, 4)
	if cut {
		remaining := c
		for _, bit := range c.Minkowski(nozzle) {
			remaining = remaining.Intersect(bit)
		}
		return remaining
	}
	out, _ := c.UnionAll(context.Background(), c.MinkowskiHullShape(nozzle)...)
	return out
}

// MakeKeepaway returns c unioned with a copy scaled to be n larger on every
// axis and shifted so the growth is split around the original.
func (c *CSG) MakeKeepaway(n float64) *CSG {
	lo, hi := c.Min(), c.Max()
	axis := func(lo, hi float64) (scale, shift float64) {
		ext := math.Abs(hi) + math.Abs(lo)
		if ext == 0 {
			return 1, 0
		}
		return (ext + n) / ext, -(math.Abs(hi) - math.Abs(lo)) / ext * n
	}
	sx, dx := axis(lo.X, hi.X)
	sy, dy := axis(lo.Y, hi.Y)
	sz, dz := axis(lo.Z, hi.Z)
	grown := c.ScaleXYZ(sx, sy, sz).Move(dx, dy, dz)
	return grown.Union(c)
}
