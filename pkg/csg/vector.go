package csg

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vector3d is the kernel's position and direction type. It is the sdfx
// vector, so solids can be handed to sdfx renderers without conversion.
type Vector3d = v3.Vec

// Axis unit vectors.
var (
	Zero  = Vector3d{}
	XOne  = Vector3d{X: 1}
	YOne  = Vector3d{Y: 1}
	ZOne  = Vector3d{Z: 1}
	Unity = Vector3d{X: 1, Y: 1, Z: 1}
)

// Vec is shorthand for building a Vector3d.
func Vec(x, y, z float64) Vector3d {
	return Vector3d{X: x, Y: y, Z: z}
}

// Lerp returns the point a + (b-a)*t.
func Lerp(a, b Vector3d, t float64) Vector3d {
	return a.Add(b.Sub(a).MulScalar(t))
}

// NearlyEqual reports whether every component of a and b differs by at most eps.
func NearlyEqual(a, b Vector3d, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}

// Finite reports whether no component of v is NaN or infinite.
func Finite(v Vector3d) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// distance between two points.
func distance(a, b Vector3d) float64 {
	return b.Sub(a).Length()
}
