package tessellate

import (
	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/graph"
	"github.com/chazu/csgkit/pkg/kernel"
	"github.com/chazu/csgkit/pkg/shapes"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Evaluator turns graph nodes into kernel solids. Results are memoized by
// content hash, so repeated subtrees are built once.
type Evaluator struct {
	g      *graph.DesignGraph
	k      kernel.Kernel
	memo   map[graph.ContentHash]kernel.Solid
	active map[graph.NodeID]bool
}

// NewEvaluator returns an evaluator for g backed by k.
func NewEvaluator(g *graph.DesignGraph, k kernel.Kernel) *Evaluator {
	return &Evaluator{
		g:      g,
		k:      k,
		memo:   make(map[graph.ContentHash]kernel.Solid),
		active: make(map[graph.NodeID]bool),
	}
}

// Solid evaluates the node with the given ID.
func (e *Evaluator) Solid(id graph.NodeID) (kernel.Solid, error) {
	n := e.g.Get(id)
	if n == nil {
		return nil, errors.Errorf("node %s does not exist", id.Short())
	}
	if s, ok := e.memo[n.ContentHash]; ok && !n.ContentHash.IsZero() {
		return s, nil
	}
	if e.active[id] {
		return nil, errors.Errorf("node %s is part of a cycle", id.Short())
	}
	e.active[id] = true
	defer delete(e.active, id)

	s, err := e.build(n)
	if err != nil {
		return nil, err
	}
	if !n.ContentHash.IsZero() {
		e.memo[n.ContentHash] = s
	}
	return s, nil
}

func (e *Evaluator) children(n *graph.Node) ([]kernel.Solid, error) {
	if len(n.Children) == 0 {
		return nil, errors.Errorf("%s node %s has no children", n.Kind, n.ID.Short())
	}
	out := make([]kernel.Solid, len(n.Children))
	for i, id := range n.Children {
		s, err := e.Solid(id)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (e *Evaluator) union(solids []kernel.Solid) kernel.Solid {
	return lo.Reduce(solids[1:], func(acc, s kernel.Solid, _ int) kernel.Solid {
		return e.k.Union(acc, s)
	}, solids[0])
}

func (e *Evaluator) build(n *graph.Node) (kernel.Solid, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return e.primitive(n)
	case graph.NodeTransform:
		return e.transform(n)
	case graph.NodeBoolean:
		return e.boolean(n)
	case graph.NodeHull:
		solids, err := e.children(n)
		if err != nil {
			return nil, err
		}
		return kernel.Hull(e.k, solids...)
	case graph.NodeGroup:
		solids, err := e.children(n)
		if err != nil {
			return nil, err
		}
		return e.union(solids), nil
	default:
		return nil, errors.Errorf("unknown node kind: %v", n.Kind)
	}
}

func (e *Evaluator) primitive(n *graph.Node) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case graph.BoxData:
		s := e.k.Box(d.Size.X, d.Size.Y, d.Size.Z)
		if d.Center {
			s = e.k.Translate(s, -d.Size.X/2, -d.Size.Y/2, -d.Size.Z/2)
		}
		return s, nil
	case graph.SphereData:
		return e.k.Sphere(d.Radius, e.g.Segments(d.Segments)), nil
	case graph.CylinderData:
		seg := e.g.Segments(d.Segments)
		var s kernel.Solid
		if d.IsCone() {
			s = e.k.Cone(d.Height, d.Radius, d.TopRadius, seg)
		} else {
			s = e.k.Cylinder(d.Height, d.Radius, seg)
		}
		switch d.Axis {
		case graph.AxisX:
			s = e.k.Rotate(s, 0, 90, 0)
		case graph.AxisY:
			s = e.k.Rotate(s, -90, 0, 0)
		}
		return s, nil
	case graph.PolyhedronData:
		kind, err := shapes.ParseKind(d.Shape)
		if err != nil {
			return nil, err
		}
		points, err := shapes.Points(kind, d.Radius)
		if err != nil {
			return nil, err
		}
		s, err := kernel.HullPoints(e.k, lo.Map(points, func(p csg.Vector3d, _ int) [3]float64 {
			return [3]float64{p.X, p.Y, p.Z}
		}))
		if err != nil {
			return nil, errors.Wrapf(err, "%s", kind)
		}
		return s, nil
	default:
		return nil, errors.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// transform unions the children, then applies scale, rotation and
// translation in that order.
func (e *Evaluator) transform(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, errors.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	solids, err := e.children(n)
	if err != nil {
		return nil, err
	}
	s := e.union(solids)
	if sc := td.ScaleOrUnit(); sc != (graph.Vec3{X: 1, Y: 1, Z: 1}) {
		s = e.k.Scale(s, sc.X, sc.Y, sc.Z)
	}
	if r := td.Rotation; !r.IsZero() {
		s = e.k.Rotate(s, r.X, r.Y, r.Z)
	}
	if t := td.Translation; !t.IsZero() {
		s = e.k.Translate(s, t.X, t.Y, t.Z)
	}
	return s, nil
}

// boolean folds the children left to right.
func (e *Evaluator) boolean(n *graph.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, errors.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	var op func(a, b kernel.Solid) kernel.Solid
	switch bd.Op {
	case graph.BoolUnion:
		op = e.k.Union
	case graph.BoolDifference:
		op = e.k.Difference
	case graph.BoolIntersect:
		op = e.k.Intersection
	default:
		return nil, errors.Errorf("unknown boolean operation %q", bd.Op)
	}
	solids, err := e.children(n)
	if err != nil {
		return nil, err
	}
	s := solids[0]
	for _, o := range solids[1:] {
		s = op(s, o)
	}
	return s, nil
}
