// Package kernel defines the abstract geometry kernel interface.
// Implementations (bsp, sdfx) provide solid modeling and boolean
// operations behind this interface. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

import "github.com/pkg/errors"

// ErrUnsupported is returned by helpers when a backend lacks an optional
// capability.
var ErrUnsupported = errors.New("kernel: operation not supported by backend")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin; the round
	// primitives are centered on it with Z as their axis.
	Box(x, y, z float64) Solid
	Sphere(radius float64, segments int) Solid
	Cylinder(height, radius float64, segments int) Solid
	Cone(height, r0, r1 float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Huller is implemented by kernels that can build convex hulls.
type Huller interface {
	// Hull returns the convex hull of all the solids together.
	Hull(solids ...Solid) (Solid, error)
	// HullPoints returns the convex hull of a point cloud.
	HullPoints(points [][3]float64) (Solid, error)
}

// Hull builds the hull of solids on k, or returns ErrUnsupported.
func Hull(k Kernel, solids ...Solid) (Solid, error) {
	h, ok := k.(Huller)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "hull on %T", k)
	}
	return h.Hull(solids...)
}

// HullPoints builds the hull of points on k, or returns ErrUnsupported.
func HullPoints(k Kernel, points [][3]float64) (Solid, error) {
	h, ok := k.(Huller)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "hull on %T", k)
	}
	return h.HullPoints(points)
}
