package bsp

import (
	"math"
	"testing"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/kernel"
)

func volume(t *testing.T, s kernel.Solid) float64 {
	t.Helper()
	c, ok := CSG(s)
	if !ok {
		t.Fatalf("solid %T did not come from the bsp kernel", s)
	}
	return c.Volume()
}

// meshVolume sums signed tetrahedra against the origin.
func meshVolume(m *kernel.Mesh) float64 {
	var v float64
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		a := csg.Vec(float64(tri[0][0]), float64(tri[0][1]), float64(tri[0][2]))
		b := csg.Vec(float64(tri[1][0]), float64(tri[1][1]), float64(tri[1][2]))
		c := csg.Vec(float64(tri[2][0]), float64(tri[2][1]), float64(tri[2][2]))
		v += a.Dot(b.Cross(c)) / 6
	}
	return v
}

func TestBox(t *testing.T) {
	k := New(nil)
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 12 {
		t.Fatalf("box triangle count = %d, want 12", mesh.TriangleCount())
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if got := meshVolume(mesh); math.Abs(got-125000) > 1e-2 {
		t.Errorf("mesh volume = %f, want 125000", got)
	}

	min, max := box.BoundingBox()
	if min != [3]float64{0, 0, 0} || max != [3]float64{100, 50, 25} {
		t.Errorf("bounds = %v %v, want [0 0 0] [100 50 25]", min, max)
	}
}

func TestRoundPrimitives(t *testing.T) {
	k := New(nil)
	tests := []struct {
		name  string
		solid kernel.Solid
		want  float64
		tol   float64
	}{
		{"sphere", k.Sphere(10, 48), 4.0 / 3 * math.Pi * 1000, 100},
		{"cylinder", k.Cylinder(50, 10, 64), math.Pi * 100 * 50, 50},
		{"cone", k.Cone(30, 10, 0, 64), math.Pi * 100 * 30 / 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := volume(t, tt.solid)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("volume = %f, want ~%f", got, tt.want)
			}
			min, max := tt.solid.BoundingBox()
			if math.Abs(min[2]+max[2]) > 1e-9 {
				t.Errorf("solid is not centered on Z: %v %v", min, max)
			}
		})
	}
}

func TestBooleans(t *testing.T) {
	k := New(nil)
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 5, 5, 5)

	tests := []struct {
		name  string
		solid kernel.Solid
		want  float64
	}{
		{"union", k.Union(a, b), 1875},
		{"difference", k.Difference(a, b), 875},
		{"intersection", k.Intersection(a, b), 125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := volume(t, tt.solid); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("volume = %f, want %f", got, tt.want)
			}
			mesh, err := k.ToMesh(tt.solid)
			if err != nil {
				t.Fatalf("ToMesh failed: %v", err)
			}
			if got := meshVolume(mesh); math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("mesh volume = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDifferenceWithCylinder(t *testing.T) {
	k := New(nil)
	box := k.Translate(k.Box(100, 100, 100), -50, -50, -50)
	cyl := k.Cylinder(120, 20, 32)
	diff := k.Difference(box, cyl)

	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
	hole := volume(t, k.Intersection(box, cyl))
	if got := volume(t, diff); math.Abs(got+hole-1e6) > 1e-2 {
		t.Errorf("difference + hole = %f, want 1e6", got+hole)
	}
}

func TestTransforms(t *testing.T) {
	k := New(nil)
	box := k.Box(100, 10, 10)

	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()
	if math.Abs(max[0]-min[0]-10) > 1e-9 {
		t.Errorf("rotated X extent = %f, want 10", max[0]-min[0])
	}
	if math.Abs(max[1]-min[1]-100) > 1e-9 {
		t.Errorf("rotated Y extent = %f, want 100", max[1]-min[1])
	}

	scaled := k.Scale(box, 0.5, 2, 1)
	if got := volume(t, scaled); math.Abs(got-10000) > 1e-6 {
		t.Errorf("scaled volume = %f, want 10000", got)
	}

	moved := k.Translate(box, 100, 200, 300)
	min, _ = moved.BoundingBox()
	if min != [3]float64{100, 200, 300} {
		t.Errorf("translated min = %v, want [100 200 300]", min)
	}
}

func TestHull(t *testing.T) {
	k := New(nil)
	a := k.Box(2, 2, 2)
	b := k.Translate(k.Box(2, 2, 2), 4, 0, 0)
	h, err := k.Hull(a, b)
	if err != nil {
		t.Fatalf("Hull failed: %v", err)
	}
	if got := volume(t, h); math.Abs(got-24) > 1e-6 {
		t.Errorf("hull volume = %f, want 24", got)
	}

	tet, err := k.HullPoints([][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	if err != nil {
		t.Fatalf("HullPoints failed: %v", err)
	}
	if got := volume(t, tet); math.Abs(got-1.0/6) > 1e-9 {
		t.Errorf("tetrahedron volume = %f, want 1/6", got)
	}

	if _, err := k.HullPoints([][3]float64{{0, 0, 0}, {1, 0, 0}}); err == nil {
		t.Error("expected an error for a degenerate point cloud")
	}
}

func TestMeshCarriesColor(t *testing.T) {
	k := New(nil)
	c := csg.Box(csg.Zero, csg.Unity)
	col, err := csg.ParseHexColor("#112233")
	if err != nil {
		t.Fatal(err)
	}
	m, err := k.ToMesh(k.Wrap(c.SetColor(col)))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.Color != "#112233" {
		t.Errorf("mesh color = %q, want #112233", m.Color)
	}
}

func TestEmptyIntersection(t *testing.T) {
	k := New(nil)
	a := k.Box(1, 1, 1)
	b := k.Translate(k.Box(1, 1, 1), 10, 0, 0)
	m, err := k.ToMesh(k.Intersection(a, b))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if !m.IsEmpty() {
		t.Errorf("expected empty mesh, got %d triangles", m.TriangleCount())
	}
}
