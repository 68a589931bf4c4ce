// Package bsp implements the kernel.Kernel interface on the csgkit BSP
// kernel. Solids stay exact polygon meshes through every operation and
// are only triangulated when a mesh is requested.
package bsp

import (
	"context"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/kernel"
	"github.com/chazu/csgkit/pkg/shapes"
	"github.com/pkg/errors"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*Kernel)(nil)
	_ kernel.Huller = (*Kernel)(nil)
)

// solid wraps a *csg.CSG to implement kernel.Solid.
type solid struct {
	c *csg.CSG
}

// BoundingBox returns the axis-aligned bounding box.
func (s *solid) BoundingBox() (min, max [3]float64) {
	b := s.c.Bounds()
	min = [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	max = [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel with csg solids.
type Kernel struct {
	cfg *csg.Config
}

// New returns a kernel whose solids use cfg. A nil cfg means
// csg.DefaultConfig.
func New(cfg *csg.Config) *Kernel {
	if cfg == nil {
		cfg = csg.DefaultConfig()
	}
	return &Kernel{cfg: cfg}
}

// Config returns the configuration shared by every solid of k.
func (k *Kernel) Config() *csg.Config { return k.cfg }

func (k *Kernel) wrap(c *csg.CSG) kernel.Solid {
	return &solid{c: c.WithConfig(k.cfg)}
}

// unwrap extracts the underlying solid. Solids from another backend are
// a programming error.
func unwrap(s kernel.Solid) *csg.CSG {
	return s.(*solid).c
}

// CSG returns the kernel solid behind s, if s came from this backend.
func CSG(s kernel.Solid) (*csg.CSG, bool) {
	w, ok := s.(*solid)
	if !ok {
		return nil, false
	}
	return w.c, true
}

// Wrap adopts an existing csg solid.
func (k *Kernel) Wrap(c *csg.CSG) kernel.Solid {
	return k.wrap(c)
}

// Box creates a box with its minimum corner at the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return k.wrap(shapes.Cube(csg.Vec(x, y, z), false))
}

// Sphere creates a UV sphere centered on the origin.
func (k *Kernel) Sphere(radius float64, segments int) kernel.Solid {
	return k.wrap(shapes.Sphere(radius, segments))
}

// Cylinder creates a cylinder along Z centered on the origin.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return k.wrap(shapes.Cylinder(height, radius, segments))
}

// Cone creates a truncated cone along Z centered on the origin.
func (k *Kernel) Cone(height, r0, r1 float64, segments int) kernel.Solid {
	return k.wrap(shapes.Cone(height, r0, r1, segments))
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return k.wrap(unwrap(a).Union(unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return k.wrap(unwrap(a).Difference(unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return k.wrap(unwrap(a).Intersect(unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.wrap(unwrap(s).Move(x, y, z))
}

// Rotate rotates a solid by Euler angles (degrees) around X, then Y, then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.wrap(unwrap(s).Rot(x, y, z))
}

// Scale scales a solid about the origin.
func (k *Kernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.wrap(unwrap(s).ScaleXYZ(x, y, z))
}

// Hull returns the convex hull of all the solids.
func (k *Kernel) Hull(solids ...kernel.Solid) (kernel.Solid, error) {
	parts := make([]*csg.CSG, len(solids))
	for i, s := range solids {
		parts[i] = unwrap(s)
	}
	h := csg.HullAll(parts...)
	if h.IsEmpty() {
		return nil, errors.Wrap(csg.ErrEmptyHull, "bsp: hull")
	}
	return k.wrap(h), nil
}

// HullPoints returns the convex hull of a point cloud.
func (k *Kernel) HullPoints(points [][3]float64) (kernel.Solid, error) {
	vs := make([]csg.Vector3d, len(points))
	for i, p := range points {
		vs[i] = csg.Vec(p[0], p[1], p[2])
	}
	h, err := csg.HullFromPoints(vs, k.cfg)
	if err != nil {
		return nil, errors.Wrap(err, "bsp: hull")
	}
	return k.wrap(h), nil
}

// ToMesh triangulates a solid into a flat-shaded mesh.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return k.ToMeshContext(context.Background(), s)
}

// ToMeshContext is ToMesh with cancellation of the T-junction repair pass.
func (k *Kernel) ToMeshContext(ctx context.Context, s kernel.Solid) (*kernel.Mesh, error) {
	tri, err := unwrap(s).TriangulateContext(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "bsp: triangulate")
	}
	return Mesh(tri), nil
}

// Mesh flattens the polygons of c into a mesh. Polygons with more than
// three vertices are fanned from their first vertex, so c should already
// be triangulated.
func Mesh(c *csg.CSG) *kernel.Mesh {
	m := &kernel.Mesh{}
	for _, p := range c.Polygons() {
		n := f32(p.Plane.Normal)
		for i := 1; i+1 < len(p.Vertices); i++ {
			m.AddTriangle(f32(p.Vertices[0].Pos), f32(p.Vertices[i].Pos), f32(p.Vertices[i+1].Pos), n)
		}
	}
	if col, ok := c.Metadata().Color(); ok {
		m.Color = csg.HexColor(col)
	}
	return m
}

func f32(v csg.Vector3d) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
