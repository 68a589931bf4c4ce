package csg

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Bounds is an axis-aligned bounding box, stored as an sdfx box.
type Bounds sdf.Box3

// BoundsOf returns the box around points. An empty slice gives the zero box.
func BoundsOf(points []Vector3d) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	inf := math.Inf(1)
	b := Bounds{Min: Vec(inf, inf, inf), Max: Vec(-inf, -inf, -inf)}
	for _, p := range points {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Box3 returns the sdfx form.
func (b Bounds) Box3() sdf.Box3 { return sdf.Box3(b) }

// Union returns the box enclosing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Intersects reports whether the boxes overlap. Touching faces count.
func (b Bounds) Intersects(o Bounds) bool {
	if o.Min.X > b.Max.X || o.Max.X < b.Min.X {
		return false
	}
	if o.Min.Y > b.Max.Y || o.Max.Y < b.Min.Y {
		return false
	}
	if o.Min.Z > b.Max.Z || o.Max.Z < b.Min.Z {
		return false
	}
	return true
}

// Contains reports whether v is inside or on the box.
func (b Bounds) Contains(v Vector3d) bool {
	return b.Min.X <= v.X && v.X <= b.Max.X &&
		b.Min.Y <= v.Y && v.Y <= b.Max.Y &&
		b.Min.Z <= v.Z && v.Z <= b.Max.Z
}

// ContainsPolygon reports whether every vertex of p is inside the box.
func (b Bounds) ContainsPolygon(p *Polygon) bool {
	for _, v := range p.Vertices {
		if !b.Contains(v.Pos) {
			return false
		}
	}
	return true
}

// Center returns the box midpoint.
func (b Bounds) Center() Vector3d {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the box extent along each axis.
func (b Bounds) Size() Vector3d {
	return b.Max.Sub(b.Min)
}

// Enlarge grows the box by d on every side.
func (b Bounds) Enlarge(d float64) Bounds {
	pad := Vec(d, d, d)
	return Bounds{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// ToCSG returns a box solid filling the bounds.
func (b Bounds) ToCSG() *CSG {
	return Box(b.Center(), b.Size())
}
