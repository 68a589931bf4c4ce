package csg

import "github.com/samber/lo"

// Volume returns the enclosed volume by the divergence theorem. It is
// negative for an inside-out surface. Each polygon is fanned from its first
// vertex, so the result does not depend on how the surface is triangulated.
func (c *CSG) Volume() float64 {
	var v float64
	for _, p := range c.polygons {
		a := p.Vertices[0].Pos
		for i := 1; i+1 < len(p.Vertices); i++ {
			b, d := p.Vertices[i].Pos, p.Vertices[i+1].Pos
			v += a.Dot(b.Cross(d))
		}
	}
	return v / 6
}

// SurfaceArea returns the summed polygon area.
func (c *CSG) SurfaceArea() float64 {
	return lo.SumBy(c.polygons, func(p *Polygon) float64 { return p.Area() })
}
