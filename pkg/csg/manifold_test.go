package csg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tJunction returns a unit square whose bottom edge is touched in the
// middle by the corner of two smaller squares below it.
func tJunction() []*Polygon {
	return []*Polygon{
		MustPolygon(Vec(0, 0, 0), Vec(2, 0, 0), Vec(2, 2, 0), Vec(0, 2, 0)),
		MustPolygon(Vec(0, -1, 0), Vec(1, -1, 0), Vec(1, 0, 0), Vec(0, 0, 0)),
		MustPolygon(Vec(1, -1, 0), Vec(2, -1, 0), Vec(2, 0, 0), Vec(1, 0, 0)),
	}
}

func TestRepairManifoldInsertsJunction(t *testing.T) {
	cfg, sink := quietConfig(OptNone)
	cfg.ManifoldWorkers = 2
	cfg.ManifoldBatch = 2
	in := tJunction()

	var calls []int
	cfg.Progress = func(current, total int, stage string, _ *CSG) {
		assert.Equal(t, "manifold", stage)
		assert.Equal(t, 3, total)
		calls = append(calls, current)
	}

	out, err := RepairManifold(context.Background(), in, cfg)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int{2, 3}, calls)

	require.Len(t, out[0].Vertices, 5)
	assert.True(t, NearlyEqual(out[0].Vertices[1].Pos, Vec(1, 0, 0), 1e-12))
	assert.Equal(t, out[0].Plane.Normal, out[0].Vertices[1].Normal)
	assert.Same(t, in[1], out[1])
	assert.Same(t, in[2], out[2])

	// the input is untouched
	assert.Len(t, in[0].Vertices, 4)

	got := sink.ByStage(StageManifold)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Polygons)
}

func TestRepairManifoldOrdersJunctions(t *testing.T) {
	cfg, _ := quietConfig(OptNone)
	polys := []*Polygon{
		MustPolygon(Vec(0, 0, 0), Vec(3, 0, 0), Vec(3, 3, 0), Vec(0, 3, 0)),
		// listed so the farther junction is found first
		MustPolygon(Vec(2, -1, 0), Vec(3, -1, 0), Vec(3, 0, 0), Vec(2, 0, 0)),
		MustPolygon(Vec(1, -1, 0), Vec(2, -1, 0), Vec(2, 0, 0), Vec(1, 0, 0)),
		MustPolygon(Vec(0, -1, 0), Vec(1, -1, 0), Vec(1, 0, 0), Vec(0, 0, 0)),
	}
	out, err := RepairManifold(context.Background(), polys, cfg)
	require.NoError(t, err)
	v := out[0].Vertices
	require.Len(t, v, 6)
	assert.InDelta(t, 0, v[0].Pos.X, 1e-12)
	assert.InDelta(t, 1, v[1].Pos.X, 1e-12)
	assert.InDelta(t, 2, v[2].Pos.X, 1e-12)
	assert.InDelta(t, 3, v[3].Pos.X, 1e-12)
}

func TestRepairManifoldNothingToDo(t *testing.T) {
	cfg, sink := quietConfig(OptNone)
	in := Box(Zero, Vec(1, 1, 1)).Polygons()
	out, err := RepairManifold(context.Background(), in, cfg)
	require.NoError(t, err)
	for i := range in {
		assert.Same(t, in[i], out[i])
	}
	assert.Empty(t, sink.Diagnostics())
}

func TestRepairManifoldCancelled(t *testing.T) {
	cfg, _ := quietConfig(OptNone)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := tJunction()
	out, err := RepairManifold(ctx, in, cfg)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, in, out)
}

func TestRepairDegenerates(t *testing.T) {
	cfg, sink := quietConfig(OptNone)
	tri := MustPolygon(Vec(0, 0, 0), Vec(2, 0, 0), Vec(1, 2, 0))
	sliver, err := NewPolygon([]*Vertex{
		NewVertex(Vec(0, 0, 0), Zero),
		NewVertex(Vec(1, -1e-12, 0), Zero),
		NewVertex(Vec(2, 0, 0), Zero),
	}, nil)
	require.NoError(t, err)

	out := repairDegenerates([]*Polygon{tri}, []*Polygon{sliver}, cfg)
	require.GreaterOrEqual(t, len(out), 2)
	found := false
	var area float64
	for _, p := range out {
		area += p.Area()
		for _, v := range p.Vertices {
			if NearlyEqual(v.Pos, Vec(1, 0, 0), 1e-9) {
				found = true
			}
		}
	}
	assert.True(t, found)
	assert.InDelta(t, 2, area, 1e-9)
	assert.Empty(t, sink.Diagnostics())
}

func TestRepairDegeneratesWithoutNeighbour(t *testing.T) {
	cfg, sink := quietConfig(OptNone)
	tri := MustPolygon(Vec(0, 5, 0), Vec(2, 5, 0), Vec(1, 7, 0))
	sliver, err := NewPolygon([]*Vertex{
		NewVertex(Vec(0, 0, 0), Zero),
		NewVertex(Vec(1, -1e-12, 0), Zero),
		NewVertex(Vec(2, 0, 0), Zero),
	}, nil)
	require.NoError(t, err)

	out := repairDegenerates([]*Polygon{tri}, []*Polygon{sliver}, cfg)
	require.Len(t, out, 1)
	assert.Same(t, tri, out[0])
	got := sink.ByStage(StageDegenerate)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Polygons)
	assert.ErrorIs(t, got[0].Err, errNoNeighbour)
}
