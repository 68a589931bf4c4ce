// Package shapes builds ready-made solids on top of the csg kernel.
// Boxes, spheres and cylinders are tessellated directly; the regular
// polyhedra are convex hulls of their seed vertices.
package shapes

import (
	"math"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/pkg/errors"
)

// DefaultSegments is the facet count used when a caller passes zero.
const DefaultSegments = 32

// Kind names a regular polyhedron.
type Kind string

const (
	Tetrahedron  Kind = "tetrahedron"
	Octahedron   Kind = "octahedron"
	Icosahedron  Kind = "icosahedron"
	Dodecahedron Kind = "dodecahedron"
)

// Kinds lists every polyhedron kind in a stable order.
var Kinds = []Kind{Tetrahedron, Octahedron, Icosahedron, Dodecahedron}

// ErrUnknownKind is returned for a polyhedron name that is not in Kinds.
var ErrUnknownKind = errors.New("shapes: unknown polyhedron")

// ParseKind resolves a polyhedron name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

func segments(n int) int {
	if n <= 0 {
		return DefaultSegments
	}
	return n
}

// Cube returns a box of the given size. With center set the box is
// centered on the origin; otherwise its minimum corner sits there.
func Cube(size csg.Vector3d, center bool) *csg.CSG {
	c := size.MulScalar(0.5)
	if center {
		c = csg.Zero
	}
	return csg.Box(c, size)
}

// Sphere returns a UV sphere centered on the origin.
func Sphere(radius float64, n int) *csg.CSG {
	n = segments(n)
	return csg.Sphere(csg.Zero, radius, n, max(n/2, 2))
}

// Cylinder returns a cylinder along Z, centered on the origin.
func Cylinder(height, radius float64, n int) *csg.CSG {
	return Cone(height, radius, radius, n)
}

// Cone returns a truncated cone along Z, centered on the origin, with
// radius r0 at the bottom and r1 at the top.
func Cone(height, r0, r1 float64, n int) *csg.CSG {
	h := height / 2
	return csg.Cylinder(csg.Vec(0, 0, -h), csg.Vec(0, 0, h), r0, r1, segments(n))
}

// Points returns the vertices of a polyhedron with circumradius r,
// centered on the origin.
func Points(kind Kind, r float64) ([]csg.Vector3d, error) {
	var seeds []csg.Vector3d
	switch kind {
	case Tetrahedron:
		seeds = []csg.Vector3d{
			csg.Vec(1, 1, 1), csg.Vec(1, -1, -1), csg.Vec(-1, 1, -1), csg.Vec(-1, -1, 1),
		}
	case Octahedron:
		seeds = []csg.Vector3d{
			csg.XOne, csg.XOne.Neg(), csg.YOne, csg.YOne.Neg(), csg.ZOne, csg.ZOne.Neg(),
		}
	case Icosahedron:
		phi := (1 + math.Sqrt(5)) / 2
		for _, a := range []float64{-1, 1} {
			for _, b := range []float64{-phi, phi} {
				seeds = append(seeds, cyclic(0, a, b)...)
			}
		}
	case Dodecahedron:
		phi := (1 + math.Sqrt(5)) / 2
		for _, x := range []float64{-1, 1} {
			for _, y := range []float64{-1, 1} {
				for _, z := range []float64{-1, 1} {
					seeds = append(seeds, csg.Vec(x, y, z))
				}
			}
		}
		for _, a := range []float64{-1 / phi, 1 / phi} {
			for _, b := range []float64{-phi, phi} {
				seeds = append(seeds, cyclic(0, a, b)...)
			}
		}
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	out := make([]csg.Vector3d, len(seeds))
	for i, s := range seeds {
		out[i] = s.Normalize().MulScalar(r)
	}
	return out, nil
}

// cyclic returns the three cyclic permutations of (x, y, z).
func cyclic(x, y, z float64) []csg.Vector3d {
	return []csg.Vector3d{csg.Vec(x, y, z), csg.Vec(y, z, x), csg.Vec(z, x, y)}
}

// Polyhedron returns the regular polyhedron of the given kind with
// circumradius r.
func Polyhedron(kind Kind, r float64, cfg *csg.Config) (*csg.CSG, error) {
	if r <= 0 {
		return nil, errors.Errorf("shapes: %s radius must be positive, got %g", kind, r)
	}
	points, err := Points(kind, r)
	if err != nil {
		return nil, err
	}
	c, err := csg.HullFromPoints(points, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "shapes: %s", kind)
	}
	return c.SetName(string(kind)), nil
}
