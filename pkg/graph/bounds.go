package graph

import (
	"github.com/chazu/csgkit/pkg/csg"
)

// EstimateBounds returns a conservative axis-aligned box around the solid
// that node id evaluates to, without building any geometry. ok is false
// for missing nodes, cycles and results known to be empty.
func EstimateBounds(g *DesignGraph, id NodeID) (b csg.Bounds, ok bool) {
	e := boundsEstimator{g: g, memo: make(map[NodeID]estimate), active: make(map[NodeID]bool)}
	r := e.bounds(id)
	return r.b, r.ok
}

type estimate struct {
	b  csg.Bounds
	ok bool
}

type boundsEstimator struct {
	g      *DesignGraph
	memo   map[NodeID]estimate
	active map[NodeID]bool
}

func (e *boundsEstimator) bounds(id NodeID) estimate {
	if r, ok := e.memo[id]; ok {
		return r
	}
	n := e.g.Nodes[id]
	if n == nil || e.active[id] {
		return estimate{}
	}
	e.active[id] = true
	r := e.node(n)
	delete(e.active, id)
	e.memo[id] = r
	return r
}

func (e *boundsEstimator) node(n *Node) estimate {
	switch d := n.Data.(type) {
	case BoxData:
		min := csg.Zero
		if d.Center {
			min = csg.Vec(-d.Size.X/2, -d.Size.Y/2, -d.Size.Z/2)
		}
		return estimate{csg.Bounds{Min: min, Max: min.Add(csg.Vec(d.Size.X, d.Size.Y, d.Size.Z))}, true}
	case SphereData:
		return estimate{cube(d.Radius, d.Radius, d.Radius), true}
	case PolyhedronData:
		return estimate{cube(d.Radius, d.Radius, d.Radius), true}
	case CylinderData:
		r := max(d.Radius, d.TopRadius)
		h := d.Height / 2
		switch d.Axis {
		case AxisX:
			return estimate{cube(h, r, r), true}
		case AxisY:
			return estimate{cube(r, h, r), true}
		default:
			return estimate{cube(r, r, h), true}
		}
	case TransformData:
		inner := e.union(n.Children)
		if !inner.ok {
			return inner
		}
		s := d.ScaleOrUnit()
		t := csg.Identity().
			Scale(s.X, s.Y, s.Z).
			Rot(d.Rotation.X, d.Rotation.Y, d.Rotation.Z).
			Translate(d.Translation.X, d.Translation.Y, d.Translation.Z)
		return estimate{transformBounds(inner.b, t), true}
	case BooleanData:
		switch d.Op {
		case BoolDifference:
			if len(n.Children) == 0 {
				return estimate{}
			}
			return e.bounds(n.Children[0])
		case BoolIntersect:
			return e.intersection(n.Children)
		default:
			return e.union(n.Children)
		}
	default:
		return e.union(n.Children)
	}
}

func (e *boundsEstimator) union(ids []NodeID) estimate {
	var out estimate
	for _, id := range ids {
		r := e.bounds(id)
		if !r.ok {
			continue
		}
		if !out.ok {
			out = r
			continue
		}
		out.b = out.b.Union(r.b)
	}
	return out
}

func (e *boundsEstimator) intersection(ids []NodeID) estimate {
	var out estimate
	for i, id := range ids {
		r := e.bounds(id)
		if !r.ok {
			return estimate{}
		}
		if i == 0 {
			out = r
			continue
		}
		if !out.b.Intersects(r.b) {
			return estimate{}
		}
		out.b = csg.Bounds{Min: out.b.Min.Max(r.b.Min), Max: out.b.Max.Min(r.b.Max)}
	}
	return out
}

func cube(x, y, z float64) csg.Bounds {
	return csg.Bounds{Min: csg.Vec(-x, -y, -z), Max: csg.Vec(x, y, z)}
}

func transformBounds(b csg.Bounds, t csg.Transform) csg.Bounds {
	corners := make([]csg.Vector3d, 0, 8)
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{b.Min.Z, b.Max.Z} {
				corners = append(corners, t.Apply(csg.Vec(x, y, z)))
			}
		}
	}
	return csg.BoundsOf(corners)
}
