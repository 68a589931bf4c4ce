package csg

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHullOfCube(t *testing.T) {
	c := cube(10, Vec(1, 1, 1))
	h := c.Hull()
	require.False(t, h.IsEmpty())
	assert.True(t, h.IsTriangulated())
	assert.InDelta(t, 1000, h.Volume(), 1e-6)
	assert.InDelta(t, 600, h.SurfaceArea(), 1e-6)
	for _, p := range h.Polygons() {
		// every face points away from the center, which lies behind it
		assert.Less(t, p.Plane.Distance(Vec(1, 1, 1)), 0.0)
	}
}

func TestHullWithInteriorPoints(t *testing.T) {
	pts := []Vector3d{
		Vec(0, 0, 0), Vec(1, 0, 0), Vec(0, 1, 0), Vec(0, 0, 1),
		Vec(0.1, 0.1, 0.1), Vec(0.2, 0.1, 0.1), Vec(0, 0, 0),
	}
	h, err := HullFromPoints(pts, nil)
	require.NoError(t, err)
	assert.Len(t, h.Polygons(), 4)
	assert.InDelta(t, 1.0/6, h.Volume(), 1e-9)
}

func TestHullTooFewPoints(t *testing.T) {
	_, err := HullFromPoints([]Vector3d{Vec(0, 0, 0), Vec(1, 0, 0), Vec(0, 1, 0)}, nil)
	assert.Equal(t, ErrEmptyHull, errors.Cause(err))

	cfg, sink := quietConfig(OptNone)
	flat := FromPolygonsConfig(cfg, []*Polygon{MustPolygon(Vec(0, 0, 0), Vec(1, 0, 0), Vec(0, 1, 0))})
	assert.True(t, flat.Hull().IsEmpty())
	assert.Len(t, sink.ByStage(StageHull), 1)
}

func TestHullAll(t *testing.T) {
	a := cube(2, Zero)
	b := cube(2, Vec(4, 0, 0))
	h := HullAll(a, b)
	assert.InDelta(t, 2*2*6, h.Volume(), 1e-6)
	assert.InDelta(t, -1, h.Min().X, 1e-12)
	assert.InDelta(t, 5, h.Max().X, 1e-12)
	assert.True(t, HullAll().IsEmpty())
}

func TestHullKeepsColor(t *testing.T) {
	col, err := ParseHexColor("#ff0000")
	require.NoError(t, err)
	h := cube(1, Zero).SetColor(col).Hull()
	assert.Equal(t, col, h.Color())
	for _, p := range h.Polygons() {
		got, ok := p.Meta.Color()
		require.True(t, ok)
		assert.Equal(t, col, got)
	}
}
