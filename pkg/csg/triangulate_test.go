package csg

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangulateTriangleIsNoOp(t *testing.T) {
	p := MustPolygon(Vec(0, 0, 0), Vec(1, 0, 0), Vec(0, 1, 0))
	got, err := TriangulatePolygon(p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, p, got[0])
	for i := range p.Vertices {
		assert.Same(t, p.Vertices[i], got[0].Vertices[i])
	}
}

func TestTriangulatePolygon(t *testing.T) {
	tests := []struct {
		name   string
		points []Vector3d
		tris   int
		area   float64
	}{
		{
			name:   "square",
			points: []Vector3d{Vec(0, 0, 0), Vec(1, 0, 0), Vec(1, 1, 0), Vec(0, 1, 0)},
			tris:   2,
			area:   1,
		},
		{
			name:   "tilted pentagon",
			points: []Vector3d{Vec(0, 0, 0), Vec(2, 0, 2), Vec(3, 1, 3), Vec(1, 2, 1), Vec(-1, 1, -1)},
			tris:   3,
		},
		{
			name:   "concave",
			points: []Vector3d{Vec(0, 0, 0), Vec(4, 0, 0), Vec(4, 1, 0), Vec(1.5, 1.2, 0), Vec(1.3, 3, 0), Vec(0, 3, 0)},
			tris:   4,
			area:   7.07,
		},
		{
			name:   "regular hexagon",
			points: hexagon(3),
			tris:   4,
		},
		{
			name:   "facing down",
			points: []Vector3d{Vec(0, 0, 5), Vec(0, 3, 5), Vec(3, 3, 5), Vec(3, 0, 5)},
			tris:   2,
			area:   9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustPolygon(tt.points...)
			p.Meta.Set("k", "v")
			got, err := TriangulatePolygon(p)
			require.NoError(t, err)
			require.Len(t, got, tt.tris)

			var area float64
			for _, tri := range got {
				require.Len(t, tri.Vertices, 3)
				assert.Greater(t, tri.Plane.Normal.Dot(p.Plane.Normal), 0.999)
				assert.Same(t, p.Meta, tri.Meta)
				area += tri.Area()
			}
			want := tt.area
			if want == 0 {
				want = p.Area()
			}
			assert.InDelta(t, want, area, 1e-9)
		})
	}
}

func hexagon(r float64) []Vector3d {
	pts := make([]Vector3d, 6)
	for i := range pts {
		a := float64(i) * math.Pi / 3
		pts[i] = Vec(r*math.Cos(a), r*math.Sin(a), 0)
	}
	return pts
}

func TestFlattenSnapsNearlyEqualCoordinates(t *testing.T) {
	// sin(60°) and sin(120°) differ in the last bit
	verts := make([]*Vertex, 0, 6)
	for _, p := range hexagon(1) {
		verts = append(verts, NewVertex(p, ZOne))
	}
	flat := flatten(verts, Identity())
	assert.Equal(t, flat[1].y, flat[2].y)
	assert.Equal(t, flat[4].y, flat[5].y)
	assert.Equal(t, flat[0].y, flat[3].y)
	assert.NotEqual(t, flat[0].y, flat[1].y)
}

func TestTriangulateRotatedCylinder(t *testing.T) {
	cfg, sink := quietConfig(OptNone)
	c := Cylinder(Zero, Vec(0, 0, 20), 5, 5, 64).WithConfig(cfg).RotY(90)
	tri := c.Triangulate(true)
	assert.Empty(t, sink.ByStage(StageTriangulate))
	for _, p := range tri.Polygons() {
		assert.Len(t, p.Vertices, 3)
	}
	assert.InDelta(t, c.Volume(), tri.Volume(), 1e-6)
	assert.InDelta(t, c.SurfaceArea(), tri.SurfaceArea(), 1e-6)
}

func TestTriangulateFallsBackToFan(t *testing.T) {
	saved := sweepLoop
	sweepLoop = func([]point2) ([][3]int, error) { return nil, ErrTriangulation }
	defer func() { sweepLoop = saved }()

	hex := MustPolygon(hexagon(2)...)
	got, err := TriangulatePolygon(hex)
	require.NoError(t, err)
	require.Len(t, got, 6)
	var area float64
	for _, tri := range got {
		assert.Greater(t, tri.Plane.Normal.Dot(hex.Plane.Normal), 0.999)
		area += tri.Area()
	}
	assert.InDelta(t, hex.Area(), area, 1e-9)

	// clockwise input is fanned the same way
	cw := hexagon(2)
	slices.Reverse(cw)
	got, err = TriangulatePolygon(MustPolygon(cw...))
	require.NoError(t, err)
	assert.Len(t, got, 6)

	concave := MustPolygon(Vec(0, 0, 0), Vec(4, 0, 0), Vec(4, 1, 0), Vec(1.5, 1.2, 0), Vec(1.3, 3, 0), Vec(0, 3, 0))
	_, err = TriangulatePolygon(concave)
	assert.ErrorIs(t, err, ErrTriangulation)
}

func TestTriangulateDoesNotShareVertices(t *testing.T) {
	p := MustPolygon(Vec(0, 0, 0), Vec(1, 0, 0), Vec(1, 1, 0), Vec(0, 1, 0))
	got, err := TriangulatePolygon(p)
	require.NoError(t, err)
	for _, tri := range got {
		for _, v := range tri.Vertices {
			for _, src := range p.Vertices {
				assert.NotSame(t, src, v)
			}
		}
	}
}

func TestTriangulateColinearBoundary(t *testing.T) {
	// A square with an extra vertex on one side, as left by T-junction repair.
	p := MustPolygon(Vec(0, 0, 0), Vec(0.5, 0, 0), Vec(1, 0, 0), Vec(1, 1, 0), Vec(0, 1, 0))
	got, err := TriangulatePolygon(p)
	require.NoError(t, err)

	var area float64
	found := false
	for _, tri := range got {
		area += tri.Area()
		assert.Greater(t, tri.Plane.Normal.Z, 0.999)
		for _, v := range tri.Vertices {
			if NearlyEqual(v.Pos, Vec(0.5, 0, 0), 1e-12) {
				found = true
			}
		}
	}
	assert.True(t, found, "the mid-edge vertex must survive")
	assert.InDelta(t, 1, area, 1e-9)
}

func TestTriangulateKeepsVolume(t *testing.T) {
	c := Box(Vec(1, 2, 3), Vec(2, 4, 6))
	tri := c.Triangulate(false)
	assert.True(t, tri.IsTriangulated())
	assert.Len(t, tri.Polygons(), 12)
	assert.InDelta(t, 48, tri.Volume(), 1e-9)
	assert.InDelta(t, c.SurfaceArea(), tri.SurfaceArea(), 1e-9)
	assert.False(t, c.IsTriangulated())
	assert.Same(t, tri, tri.Triangulate(false))
}

func TestTriangulateBooleanResult(t *testing.T) {
	cfg, sink := quietConfig(OptCSGBound)
	a := cube(10, Zero).WithConfig(cfg)
	d := a.Difference(Sphere(Vec(4.7, 4.6, 4.8), 4, 12, 6))
	tri := d.Triangulate(true)
	for _, p := range tri.Polygons() {
		assert.Len(t, p.Vertices, 3)
	}
	assert.Empty(t, sink.ByStage(StageTriangulate))
	assert.InDelta(t, d.Volume(), tri.Volume(), 1e-6)
}

func TestTriangulateWithManifoldRepair(t *testing.T) {
	cfg, _ := quietConfig(OptCSGBound)
	cfg.PreventNonManifoldTriangles = true
	a := cube(2, Zero).WithConfig(cfg)
	b := cube(1, Vec(1, 0, 0)).WithConfig(cfg)
	u := a.Union(b)

	tri, err := u.TriangulateContext(context.Background(), true)
	require.NoError(t, err)
	for _, p := range tri.Polygons() {
		assert.Len(t, p.Vertices, 3)
	}
	assert.InDelta(t, u.Volume(), tri.Volume(), 1e-9)
}

func TestTriangulateDegeneratesNeedFixing(t *testing.T) {
	cfg, sink := quietConfig(OptNone)
	square := MustPolygon(Vec(0, 0, 0), Vec(2, 0, 0), Vec(2, 2, 0), Vec(0, 2, 0))
	sliver, err := NewPolygon([]*Vertex{
		NewVertex(Vec(2, 0, 0), Zero),
		NewVertex(Vec(0, 0, 0), Zero),
		NewVertex(Vec(1, 1e-12, 0), Zero),
	}, nil)
	require.NoError(t, err)
	require.True(t, sliver.IsDegenerate())

	c := FromPolygonsConfig(cfg, []*Polygon{square, sliver})
	loose := c.Triangulate(false)
	assert.Len(t, loose.Polygons(), 3)
	assert.True(t, loose.needsDegeneratesPruned)

	fixed := loose.Triangulate(true)
	assert.NotSame(t, loose, fixed)
	assert.False(t, fixed.needsDegeneratesPruned)
	var area float64
	for _, p := range fixed.Polygons() {
		assert.False(t, p.IsDegenerate())
		area += p.Area()
	}
	assert.InDelta(t, 4, area, 1e-9)
	assert.Empty(t, sink.ByStage(StageDegenerate))
}
