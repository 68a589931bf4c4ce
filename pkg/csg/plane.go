package csg

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// Epsilon is the default tolerance for deciding that a point lies on a plane.
	Epsilon = 1e-9
	// DuplicateEpsilon is the distance under which two points are the same point.
	DuplicateEpsilon = 1e-4
)

// Classification is the position of a point or polygon relative to a plane.
// The values are bit flags: Front|Back == Spanning.
type Classification int

const (
	Coplanar Classification = 0
	Front    Classification = 1
	Back     Classification = 2
	Spanning Classification = 3
)

func (c Classification) String() string {
	switch c {
	case Coplanar:
		return "coplanar"
	case Front:
		return "front"
	case Back:
		return "back"
	case Spanning:
		return "spanning"
	default:
		return "unknown"
	}
}

// Plane is a unit normal and its signed distance from the origin.
type Plane struct {
	Normal Vector3d
	Dist   float64
}

// Axis planes.
var (
	XYPlane = Plane{Normal: ZOne, Dist: 1}
	XZPlane = Plane{Normal: YOne, Dist: 1}
	YZPlane = Plane{Normal: XOne, Dist: 1}
)

// NewPlane validates normal and returns the plane with the given distance.
func NewPlane(normal Vector3d, dist float64) (Plane, error) {
	if !validNormal(normal) {
		return Plane{}, errors.Wrapf(ErrInvalidNormal, "normal %v", normal)
	}
	return Plane{Normal: normal, Dist: dist}, nil
}

// PlaneFromPoints derives a plane from a vertex loop using Newell's method.
func PlaneFromPoints(points []Vector3d) (Plane, error) {
	n, err := ComputeNormal(points)
	if err != nil {
		return Plane{}, err
	}
	return Plane{Normal: n, Dist: n.Dot(points[0])}, nil
}

// ComputeNormal returns the unit normal of a vertex loop by Newell's method.
// Every edge contributes, so near-colinear leading vertices do not poison
// the result the way a three-point cross product would.
func ComputeNormal(points []Vector3d) (Vector3d, error) {
	if len(points) < 3 {
		return Vector3d{}, errors.Wrapf(ErrTooFewVertices, "got %d", len(points))
	}
	var n Vector3d
	for i, cur := range points {
		next := points[(i+1)%len(points)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	l := n.Length()
	if l == 0 {
		return Vector3d{}, errors.Wrap(ErrInvalidNormal, "vertices are colinear or coincident")
	}
	n = n.DivScalar(l)
	if !validNormal(n) {
		return Vector3d{}, errors.Wrapf(ErrInvalidNormal, "normal %v", n)
	}
	return n, nil
}

func validNormal(n Vector3d) bool {
	return Finite(n) && math.Abs(n.Length()) >= Epsilon
}

// Flip reverses the plane in place.
func (p *Plane) Flip() {
	p.Normal = p.Normal.Neg()
	p.Dist = -p.Dist
}

// Flipped returns the reversed plane.
func (p Plane) Flipped() Plane {
	p.Flip()
	return p
}

// Distance is the signed distance from v to the plane.
func (p Plane) Distance(v Vector3d) float64 {
	return p.Normal.Dot(v) - p.Dist
}

// widenedEpsilon scans the polygon against its own plane and widens the
// classification band to cover the polygon's own flatness error.
func widenedEpsilon(poly *Polygon, eps float64) (neg, pos float64) {
	neg, pos = -eps, eps
	for _, v := range poly.Vertices {
		t := poly.Plane.Distance(v.Pos)
		if t > pos {
			pos = t + eps
		}
		if t < neg {
			neg = t - eps
		}
	}
	return neg, pos
}

// Classify returns the overall classification of poly against p and the
// classification of each of its vertices.
func (p Plane) Classify(poly *Polygon, eps float64) (Classification, []Classification) {
	neg, pos := widenedEpsilon(poly, eps)
	var kind Classification
	types := make([]Classification, len(poly.Vertices))
	for i, v := range poly.Vertices {
		t := p.Distance(v.Pos)
		c := Coplanar
		if t < neg {
			c = Back
		} else if t > pos {
			c = Front
		}
		kind |= c
		types[i] = c
	}
	return kind, types
}

// SplitPolygon routes poly into one of the four lists, splitting it into a
// front and a back piece when it spans the plane. Coplanar polygons go to
// coplanarFront or coplanarBack depending on whether their normal agrees
// with the plane. Split pieces with fewer than 3 vertices are dropped.
func (p Plane) SplitPolygon(poly *Polygon, eps float64, coplanarFront, coplanarBack, front, back *[]*Polygon) {
	kind, types := p.Classify(poly, eps)
	switch kind {
	case Coplanar:
		if p.Normal.Dot(poly.Plane.Normal) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case Front:
		*front = append(*front, poly)
	case Back:
		*back = append(*back, poly)
	case Spanning:
		n := len(poly.Vertices)
		f := make([]*Vertex, 0, n+1)
		b := make([]*Vertex, 0, n+1)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.Vertices[i], poly.Vertices[j]
			if ti != Back {
				f = append(f, vi)
			}
			if ti != Front {
				if ti != Back {
					b = append(b, vi.Clone())
				} else {
					b = append(b, vi)
				}
			}
			if ti|tj == Spanning {
				t := (p.Dist - p.Normal.Dot(vi.Pos)) / p.Normal.Dot(vj.Pos.Sub(vi.Pos))
				v := vi.Interpolate(vj, t)
				f = append(f, v)
				b = append(b, v.Clone())
			}
		}
		if len(f) >= 3 {
			if fp, err := NewPolygon(f, poly.Meta); err == nil {
				*front = append(*front, fp)
			}
		}
		if len(b) >= 3 {
			if bp, err := NewPolygon(b, poly.Meta); err == nil {
				*back = append(*back, bp)
			}
		}
	}
}
