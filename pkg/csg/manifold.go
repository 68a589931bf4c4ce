package csg

import (
	"cmp"
	"context"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// indexed is a polygon's padded bounding box in the spatial index.
type indexed struct {
	i    int
	rect rtreego.Rect
}

func (x *indexed) Bounds() rtreego.Rect { return x.rect }

func toRect(b Bounds) (rtreego.Rect, error) {
	return rtreego.NewRectFromPoints(
		rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z},
		rtreego.Point{b.Max.X, b.Max.Y, b.Max.Z},
	)
}

// junction is a foreign vertex found on an edge, with its position along it.
type junction struct {
	t   float64
	pos Vector3d
}

// RepairManifold inserts every vertex that lies inside another polygon's
// edge into that edge, removing T-junctions. Candidate neighbours come from
// an R-tree over the polygons' bounding boxes. Polygons are processed in
// batches of cfg.ManifoldBatch on at most cfg.ManifoldWorkers goroutines;
// every worker reads a snapshot of the input and writes only its own slot,
// and the new polygons replace the old ones after the last batch.
//
// The input is not modified. On cancellation the input is returned with the
// context error.
func RepairManifold(ctx context.Context, polygons []*Polygon, cfg *Config) ([]*Polygon, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	n := len(polygons)
	if n < 2 {
		return polygons, nil
	}
	tol := cfg.ManifoldTolerance

	points := make([][]Vector3d, n)
	rects := make([]rtreego.Rect, n)
	objs := make([]rtreego.Spatial, n)
	for i, p := range polygons {
		points[i] = p.Points()
		r, err := toRect(p.Bounds().Enlarge(tol))
		if err != nil {
			return polygons, errors.Wrap(err, "csg: index polygon bounds")
		}
		rects[i] = r
		objs[i] = &indexed{i: i, rect: r}
	}
	tree := rtreego.NewTree(3, 25, 50, objs...)

	loops := make([][]*Vertex, n)
	batch := max(cfg.ManifoldBatch, 1)
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(cfg.ManifoldWorkers, 1))
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				defer func() {
					if r := recover(); r != nil {
						cfg.report(Diagnostic{
							Stage:    StageManifold,
							Message:  "skipped polygon after repair worker failed",
							Polygons: 1,
							Err:      errors.Errorf("%v", r),
						})
					}
				}()
				var near []int
				for _, s := range tree.SearchIntersect(rects[i]) {
					if j := s.(*indexed).i; j != i {
						near = append(near, j)
					}
				}
				loops[i] = junctions(polygons[i], points, near, tol)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return polygons, errors.Wrapf(err, "csg: manifold repair stopped at polygon %d of %d", start, n)
		}
		cfg.progress(end, n, "manifold", nil)
	}

	out := make([]*Polygon, n)
	changed := 0
	for i, p := range polygons {
		if loops[i] == nil {
			out[i] = p
			continue
		}
		q := &Polygon{Vertices: loops[i], Plane: p.Plane, Meta: p.Meta}
		q.init()
		out[i] = q
		changed++
	}
	if changed > 0 {
		cfg.report(Diagnostic{
			Stage:    StageManifold,
			Message:  "inserted T-junction vertices",
			Polygons: changed,
		})
	}
	return out, nil
}

// junctions returns p's loop with the vertices of its neighbours that sit
// inside its edges spliced in, or nil when there are none.
func junctions(p *Polygon, points [][]Vector3d, near []int, tol float64) []*Vertex {
	nv := len(p.Vertices)
	var loop []*Vertex
	found := false
	for k := range p.Vertices {
		e := Edge{P1: p.Vertices[k], P2: p.Vertices[(k+1)%nv]}
		var hits []junction
		for _, j := range near {
			for _, q := range points[j] {
				if e.Contains(q, tol) {
					hits = append(hits, junction{t: e.param(q), pos: q})
				}
			}
		}
		loop = append(loop, e.P1.Clone())
		if len(hits) == 0 {
			continue
		}
		found = true
		slices.SortFunc(hits, func(a, b junction) int { return cmp.Compare(a.t, b.t) })
		last := e.P1.Pos
		for _, h := range hits {
			if NearlyEqual(h.pos, last, tol) {
				continue
			}
			loop = append(loop, NewVertex(h.pos, p.Plane.Normal))
			last = h.pos
		}
	}
	if !found {
		return nil
	}
	return loop
}
