package csg

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Polygon is a planar, convex loop of at least three vertices. Meta is
// shared with every polygon split or cloned from this one.
type Polygon struct {
	Vertices []*Vertex
	Plane    Plane
	Meta     *Metadata

	degenerate bool
}

// NewPolygon builds a polygon over vertices, deriving its plane with
// Newell's method. The vertices are adopted, not copied, and their
// normals are reset to the plane normal.
func NewPolygon(vertices []*Vertex, meta *Metadata) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", len(vertices))
	}
	for _, v := range vertices {
		if !Finite(v.Pos) {
			return nil, errors.Wrapf(ErrNonFinite, "vertex %v", v.Pos)
		}
	}
	plane, err := PlaneFromPoints(positions(vertices))
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = NewMetadata()
	}
	p := &Polygon{Vertices: vertices, Plane: plane, Meta: meta}
	p.init()
	return p, nil
}

// PolygonFromPoints builds a polygon with fresh metadata from a point loop.
func PolygonFromPoints(points ...Vector3d) (*Polygon, error) {
	return PolygonFromPointsMeta(points, nil)
}

// PolygonFromPointsMeta builds a polygon sharing meta from a point loop.
func PolygonFromPointsMeta(points []Vector3d, meta *Metadata) (*Polygon, error) {
	vertices := lo.Map(points, func(p Vector3d, _ int) *Vertex {
		return NewVertex(p, Zero)
	})
	return NewPolygon(vertices, meta)
}

// MustPolygon is PolygonFromPoints for literal geometry; it panics on error.
func MustPolygon(points ...Vector3d) *Polygon {
	p, err := PolygonFromPoints(points...)
	if err != nil {
		panic(err)
	}
	return p
}

// FromConcavePoints decomposes a possibly concave point loop into convex
// triangles that share one metadata handle.
func FromConcavePoints(points ...Vector3d) ([]*Polygon, error) {
	p, err := PolygonFromPoints(points...)
	if err != nil {
		return nil, err
	}
	return TriangulatePolygon(p)
}

// init re-derives vertex normals and the degenerate flag.
func (p *Polygon) init() {
	for _, v := range p.Vertices {
		v.Normal = p.Plane.Normal
	}
	p.degenerate = true
	e := Edge{P1: p.Vertices[0], P2: p.Vertices[1]}
	for _, v := range p.Vertices[2:] {
		if !e.Colinear(v.Pos, Epsilon) {
			p.degenerate = false
			return
		}
	}
}

func positions(vertices []*Vertex) []Vector3d {
	return lo.Map(vertices, func(v *Vertex, _ int) Vector3d { return v.Pos })
}

// Points returns the vertex positions in loop order.
func (p *Polygon) Points() []Vector3d {
	return positions(p.Vertices)
}

// Clone deep-copies the vertices. Metadata stays shared.
func (p *Polygon) Clone() *Polygon {
	c := &Polygon{
		Vertices:   lo.Map(p.Vertices, func(v *Vertex, _ int) *Vertex { return v.Clone() }),
		Plane:      p.Plane,
		Meta:       p.Meta,
		degenerate: p.degenerate,
	}
	return c
}

// Flip reverses the winding, the vertex normals and the plane in place.
func (p *Polygon) Flip() *Polygon {
	for _, v := range p.Vertices {
		v.Flip()
	}
	lo.Reverse(p.Vertices)
	p.Plane.Flip()
	return p
}

// Flipped returns a flipped copy.
func (p *Polygon) Flipped() *Polygon {
	return p.Clone().Flip()
}

// Translate moves the polygon in place.
func (p *Polygon) Translate(d Vector3d) *Polygon {
	for _, v := range p.Vertices {
		v.Pos = v.Pos.Add(d)
	}
	p.Plane.Dist = p.Plane.Normal.Dot(p.Vertices[0].Pos)
	return p
}

// Transform applies t in place, re-deriving the plane. A mirroring
// transform reverses the winding so the polygon keeps facing outward.
func (p *Polygon) Transform(t Transform) error {
	for _, v := range p.Vertices {
		v.Transform(t)
	}
	plane, err := PlaneFromPoints(p.Points())
	if err != nil {
		return err
	}
	p.Plane = plane
	p.init()
	if t.IsMirror() {
		p.Flip()
	}
	return nil
}

// Transformed returns a transformed copy.
func (p *Polygon) Transformed(t Transform) (*Polygon, error) {
	c := p.Clone()
	if err := c.Transform(t); err != nil {
		return nil, err
	}
	return c, nil
}

// Bounds returns the axis-aligned box of the vertices.
func (p *Polygon) Bounds() Bounds {
	return BoundsOf(p.Points())
}

// Edges returns the closed loop of edges.
func (p *Polygon) Edges() []Edge {
	n := len(p.Vertices)
	edges := make([]Edge, n)
	for i := range p.Vertices {
		edges[i] = Edge{P1: p.Vertices[i], P2: p.Vertices[(i+1)%n]}
	}
	return edges
}

// IsDegenerate reports whether all vertices are colinear with the first edge.
func (p *Polygon) IsDegenerate() bool { return p.degenerate }

// SetDegenerate overrides the degenerate flag.
func (p *Polygon) SetDegenerate(d bool) { p.degenerate = d }

// LongEdge returns the longest edge of a degenerate polygon.
func (p *Polygon) LongEdge() (Edge, bool) {
	if !p.degenerate {
		return Edge{}, false
	}
	return lo.MaxBy(p.Edges(), func(a, b Edge) bool {
		return a.Length() > b.Length()
	}), true
}

// DegeneratePoints returns the vertices of a degenerate polygon that are
// not endpoints of its long edge.
func (p *Polygon) DegeneratePoints() []*Vertex {
	long, ok := p.LongEdge()
	if !ok {
		return nil
	}
	return lo.Filter(p.Vertices, func(v *Vertex, _ int) bool {
		return v != long.P1 && v != long.P2
	})
}

// Contains reports whether point lies inside the polygon's XY projection
// (even-odd rule).
func (p *Polygon) Contains(point Vector3d) bool {
	odd := false
	n := len(p.Vertices)
	x2, y2 := p.Vertices[n-1].Pos.X, p.Vertices[n-1].Pos.Y
	for _, v := range p.Vertices {
		x1, y1 := v.Pos.X, v.Pos.Y
		if (y1 < point.Y && y2 >= point.Y) || (y1 >= point.Y && y2 < point.Y) {
			if (point.Y-y1)/(y2-y1)*(x2-x1) < point.X-x1 {
				odd = !odd
			}
		}
		x2, y2 = x1, y1
	}
	return odd
}

// ContainsPolygon reports whether every vertex of o is inside p.
func (p *Polygon) ContainsPolygon(o *Polygon) bool {
	return lo.EveryBy(o.Vertices, func(v *Vertex) bool { return p.Contains(v.Pos) })
}

// Area returns the polygon's area.
func (p *Polygon) Area() float64 {
	var sum Vector3d
	a := p.Vertices[0].Pos
	for i := 1; i+1 < len(p.Vertices); i++ {
		b, c := p.Vertices[i].Pos, p.Vertices[i+1].Pos
		sum = sum.Add(b.Sub(a).Cross(c.Sub(a)))
	}
	return sum.Length() / 2
}

// PruneDuplicatePoints drops vertices within eps of an earlier kept vertex.
func PruneDuplicatePoints(vertices []*Vertex, eps float64) []*Vertex {
	kept := make([]*Vertex, 0, len(vertices))
	for _, v := range vertices {
		if !lo.ContainsBy(kept, func(k *Vertex) bool { return NearlyEqual(k.Pos, v.Pos, eps) }) {
			kept = append(kept, v)
		}
	}
	return kept
}
