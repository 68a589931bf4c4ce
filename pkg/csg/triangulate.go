package csg

import (
	"cmp"
	"context"
	"math"
	"slices"

	poly2tri "github.com/ByteArena/poly2tri-go"
	"github.com/pkg/errors"
)

// ErrTriangulation is returned when a polygon cannot be decomposed.
var ErrTriangulation = errors.New("csg: triangulation failed")

// TriangulatePolygon splits p into triangles that share its metadata and
// face the same way. A triangle is returned unchanged.
//
// The loop is rotated onto the XY plane and handed to a constrained
// Delaunay sweep. If the sweep rejects the loop, it is retried once with
// the vertex order reversed. Convex loops that still fail, which happens
// when T-junction repair leaves colinear boundary points, are fanned
// around their centroid.
func TriangulatePolygon(p *Polygon) ([]*Polygon, error) {
	if len(p.Vertices) == 3 {
		return []*Polygon{p}, nil
	}
	verts := PruneDuplicatePoints(p.Vertices, DuplicateEpsilon)
	if len(verts) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "%d distinct vertices", len(verts))
	}
	if len(verts) == 3 {
		t, err := orientedTriangle(verts[0], verts[1], verts[2], p)
		if err != nil {
			return nil, err
		}
		return []*Polygon{t}, nil
	}

	flat := flatten(verts, alignToZ(p.Plane.Normal))
	if signedArea(flat) < 0 {
		slices.Reverse(verts)
		slices.Reverse(flat)
	}
	isConvex := convex(flat)

	tris, err := sweepLoop(flat)
	if err != nil {
		rv, rf := slices.Clone(verts), slices.Clone(flat)
		slices.Reverse(rv)
		slices.Reverse(rf)
		if tris, err = sweepLoop(rf); err == nil {
			verts = rv
		}
	}
	if err != nil {
		if !isConvex {
			return nil, err
		}
		return fan(verts, p)
	}

	out := make([]*Polygon, 0, len(tris))
	for _, t := range tris {
		tp, err := orientedTriangle(verts[t[0]], verts[t[1]], verts[t[2]], p)
		if err != nil {
			continue
		}
		out = append(out, tp)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrTriangulation, "no valid triangles")
	}
	return out, nil
}

type point2 struct{ x, y float64 }

// flatten rotates the loop into the XY plane and rescales it to a unit
// box, so the sweep's fixed tolerance means the same thing at any size.
func flatten(verts []*Vertex, r Transform) []point2 {
	pts := make([]point2, len(verts))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, v := range verts {
		q := r.Apply(v.Pos)
		pts[i] = point2{q.X, q.Y}
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	scale := math.Max(maxX-minX, maxY-minY)
	if scale == 0 {
		scale = 1
	}
	xs := make([]*float64, len(pts))
	ys := make([]*float64, len(pts))
	for i := range pts {
		pts[i] = point2{(pts[i].x - minX) / scale, (pts[i].y - minY) / scale}
		xs[i], ys[i] = &pts[i].x, &pts[i].y
	}
	snap(xs, poly2tri.EPSILON)
	snap(ys, poly2tri.EPSILON)
	return pts
}

// snap moves coordinates that lie within tol of their sorted neighbour onto
// one value. The sweep orders points with a tolerant comparison but orients
// edges by exact comparison; the two must agree or the sweep front breaks.
func snap(vals []*float64, tol float64) {
	if len(vals) == 0 {
		return
	}
	slices.SortFunc(vals, func(a, b *float64) int { return cmp.Compare(*a, *b) })
	prev := *vals[0]
	rep := prev
	for _, v := range vals {
		cur := *v
		if cur-prev > tol {
			rep = cur
		}
		prev = cur
		*v = rep
	}
}

func signedArea(pts []point2) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.x*q.y - q.x*p.y
	}
	return a / 2
}

// convex reports whether the counterclockwise loop never turns clockwise.
// Straight runs, within the sweep's tolerance, are allowed.
func convex(pts []point2) bool {
	n := len(pts)
	for i := range pts {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		if (b.x-a.x)*(c.y-b.y)-(b.y-a.y)*(c.x-b.x) < -poly2tri.EPSILON {
			return false
		}
	}
	return true
}

// sweepLoop is the triangulator used by TriangulatePolygon.
var sweepLoop = sweep

// sweep runs the constrained Delaunay triangulation and returns index
// triples into pts. The library panics on inputs it cannot handle.
func sweep(pts []point2) (tris [][3]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			tris = nil
			err = errors.Wrapf(ErrTriangulation, "%v", r)
		}
	}()
	contour := make([]*poly2tri.Point, len(pts))
	index := make(map[*poly2tri.Point]int, len(pts))
	for i, p := range pts {
		contour[i] = poly2tri.NewPoint(p.x, p.y)
		index[contour[i]] = i
	}
	ctx := poly2tri.NewSweepContext(contour, false)
	ctx.Triangulate()
	for _, t := range ctx.GetTriangles() {
		var tri [3]int
		for k := 0; k < 3; k++ {
			i, ok := index[t.GetPoint(k)]
			if !ok {
				return nil, errors.Wrap(ErrTriangulation, "triangle uses a point outside the loop")
			}
			tri[k] = i
		}
		tris = append(tris, tri)
	}
	if len(tris) != len(pts)-2 {
		return nil, errors.Wrapf(ErrTriangulation, "got %d triangles for %d vertices", len(tris), len(pts))
	}
	return tris, nil
}

// fan triangulates a convex loop around its centroid.
func fan(verts []*Vertex, src *Polygon) ([]*Polygon, error) {
	var c Vector3d
	for _, v := range verts {
		c = c.Add(v.Pos)
	}
	center := NewVertex(c.DivScalar(float64(len(verts))), src.Plane.Normal)
	out := make([]*Polygon, 0, len(verts))
	for i := range verts {
		t, err := orientedTriangle(center, verts[i], verts[(i+1)%len(verts)], src)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrTriangulation, "fan produced no triangles")
	}
	return out, nil
}

// orientedTriangle builds a triangle from copies of a, b and c, reversing
// it if it faces away from src.
func orientedTriangle(a, b, c *Vertex, src *Polygon) (*Polygon, error) {
	t, err := NewPolygon([]*Vertex{a.Clone(), b.Clone(), c.Clone()}, src.Meta)
	if err != nil {
		return nil, err
	}
	if t.Plane.Normal.Dot(src.Plane.Normal) < 0 {
		t, err = NewPolygon([]*Vertex{c.Clone(), b.Clone(), a.Clone()}, src.Meta)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Triangulate returns a copy of c made only of triangles. With fix set,
// colinear slivers are merged into the neighbour that shares their long
// edge; without it they are kept and the result remembers that a fixing
// pass is still owed. Polygons that cannot be triangulated are dropped and
// reported to the diagnostics sink.
func (c *CSG) Triangulate(fix bool) *CSG {
	out, _ := c.TriangulateContext(context.Background(), fix)
	return out
}

// TriangulateContext is Triangulate with cancellation of the T-junction
// repair pass.
func (c *CSG) TriangulateContext(ctx context.Context, fix bool) (*CSG, error) {
	if c.triangulated && !(fix && c.needsDegeneratesPruned) {
		return c, nil
	}
	src := c.Clone().polygons
	if c.cfg.PreventNonManifoldTriangles {
		repaired, err := RepairManifold(ctx, src, c.cfg)
		if err != nil {
			return c, err
		}
		src = repaired
	}

	var out, degenerates []*Polygon
	for _, p := range src {
		switch {
		case p.IsDegenerate():
			degenerates = append(degenerates, p)
		case len(p.Vertices) == 3:
			out = append(out, p)
		default:
			tris, err := TriangulatePolygon(p)
			if err != nil {
				c.cfg.report(Diagnostic{
					Stage:    StageTriangulate,
					Message:  "dropped polygon that could not be triangulated",
					Polygons: 1,
					Err:      err,
				})
				continue
			}
			out = append(out, tris...)
		}
	}

	res := c.derive(nil)
	res.name = c.name
	if len(degenerates) > 0 {
		if fix {
			out = repairDegenerates(out, degenerates, c.cfg)
		} else {
			out = append(out, degenerates...)
			res.needsDegeneratesPruned = true
		}
	}
	res.polygons = out
	res.triangulated = true
	return res, nil
}
