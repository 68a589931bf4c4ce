package csg

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"
)

// errNoNeighbour marks a sliver whose long edge no other polygon shares.
var errNoNeighbour = errors.New("csg: no polygon shares the long edge")

// repairDegenerates folds each colinear sliver into the polygon that shares
// its long edge. The sliver's inner points are spliced into that edge and
// the neighbour is re-triangulated; zero-area pieces are discarded. Slivers
// with no neighbour are dropped and reported.
func repairDegenerates(polygons, degenerates []*Polygon, cfg *Config) []*Polygon {
	out := slices.Clone(polygons)
	dropped := 0
	var lastErr error
	for _, d := range degenerates {
		long, ok := d.LongEdge()
		if !ok {
			continue
		}
		idx, k := findEdge(out, long, cfg.DuplicateEpsilon)
		if idx < 0 {
			dropped++
			lastErr = errNoNeighbour
			continue
		}
		pieces, err := spliceEdge(out[idx], k, d.DegeneratePoints(), cfg.DuplicateEpsilon)
		if err != nil {
			dropped++
			lastErr = err
			continue
		}
		out[idx] = pieces[0]
		out = append(out, pieces[1:]...)
	}
	if dropped > 0 {
		cfg.report(Diagnostic{
			Stage:    StageDegenerate,
			Message:  "dropped degenerate polygons that could not be merged into a neighbour",
			Polygons: dropped,
			Err:      lastErr,
		})
	}
	return out
}

// findEdge returns the polygon and edge index matching e, or -1.
func findEdge(polygons []*Polygon, e Edge, eps float64) (int, int) {
	for i, p := range polygons {
		if p.IsDegenerate() {
			continue
		}
		for k, pe := range p.Edges() {
			if pe.Equal(e, eps) {
				return i, k
			}
		}
	}
	return -1, -1
}

// spliceEdge inserts points between vertex k and k+1 of p, ordered along
// that edge, and re-triangulates the result.
func spliceEdge(p *Polygon, k int, points []*Vertex, eps float64) ([]*Polygon, error) {
	n := len(p.Vertices)
	edge := Edge{P1: p.Vertices[k], P2: p.Vertices[(k+1)%n]}
	inner := make([]*Vertex, 0, len(points))
	for _, v := range points {
		if edge.HasEndpoint(v.Pos, eps) {
			continue
		}
		if t := edge.param(v.Pos); t > 0 && t < 1 {
			inner = append(inner, NewVertex(v.Pos, p.Plane.Normal))
		}
	}
	if len(inner) == 0 {
		return []*Polygon{p}, nil
	}
	slices.SortFunc(inner, func(a, b *Vertex) int {
		return cmp.Compare(edge.param(a.Pos), edge.param(b.Pos))
	})

	loop := make([]*Vertex, 0, n+len(inner))
	for i := 0; i <= k; i++ {
		loop = append(loop, p.Vertices[i].Clone())
	}
	loop = append(loop, inner...)
	for i := k + 1; i < n; i++ {
		loop = append(loop, p.Vertices[i].Clone())
	}
	merged := &Polygon{Vertices: loop, Plane: p.Plane, Meta: p.Meta}
	merged.init()

	tris, err := TriangulatePolygon(merged)
	if err != nil {
		return nil, err
	}
	tris = slices.DeleteFunc(tris, func(t *Polygon) bool { return t.IsDegenerate() })
	if len(tris) == 0 {
		return nil, errors.Wrap(ErrTriangulation, "splice left only degenerate triangles")
	}
	return tris, nil
}
