package csg

import (
	"iter"
	"slices"
)

// Node is one level of a BSP tree. Its polygons are coplanar with its
// plane; front and back hold everything on either side. Trees are built
// per boolean operation and thrown away afterwards.
type Node struct {
	polygons []*Polygon
	plane    *Plane
	front    *Node
	back     *Node
	eps      float64
}

// NewNode builds a tree from polygons using the given plane tolerance.
func NewNode(polygons []*Polygon, eps float64) *Node {
	n := &Node{eps: eps}
	n.Build(polygons)
	return n
}

// Invert turns solid space into empty space and back.
func (n *Node) Invert() {
	for _, p := range n.polygons {
		p.Flip()
	}
	if n.plane != nil {
		n.plane.Flip()
	}
	if n.front != nil {
		n.front.Invert()
	}
	if n.back != nil {
		n.back.Invert()
	}
	n.front, n.back = n.back, n.front
}

// ClipPolygons removes the parts of polygons that lie inside this tree.
func (n *Node) ClipPolygons(polygons []*Polygon) []*Polygon {
	if n.plane == nil {
		return slices.Clone(polygons)
	}
	var front, back []*Polygon
	for _, p := range polygons {
		n.plane.SplitPolygon(p, n.eps, &front, &back, &front, &back)
	}
	if n.front != nil {
		front = n.front.ClipPolygons(front)
	}
	if n.back != nil {
		back = n.back.ClipPolygons(back)
	} else {
		back = nil
	}
	return append(front, back...)
}

// ClipTo removes everything in this tree that lies inside other.
func (n *Node) ClipTo(other *Node) {
	n.polygons = other.ClipPolygons(n.polygons)
	if n.front != nil {
		n.front.ClipTo(other)
	}
	if n.back != nil {
		n.back.ClipTo(other)
	}
}

// All yields every polygon in the tree: this node's own, then the front
// subtree, then the back subtree. The sequence can be ranged over again.
func (n *Node) All() iter.Seq[*Polygon] {
	return func(yield func(*Polygon) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Polygon) bool) bool {
	for _, p := range n.polygons {
		if !yield(p) {
			return false
		}
	}
	if n.front != nil && !n.front.walk(yield) {
		return false
	}
	if n.back != nil && !n.back.walk(yield) {
		return false
	}
	return true
}

// AllPolygons collects All into a slice.
func (n *Node) AllPolygons() []*Polygon {
	return slices.Collect(n.All())
}

// Build inserts polygons into the tree. The first polygon seen by an
// empty node donates its plane.
func (n *Node) Build(polygons []*Polygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		pl := polygons[0].Plane
		n.plane = &pl
	}
	var front, back []*Polygon
	for _, p := range polygons {
		n.plane.SplitPolygon(p, n.eps, &n.polygons, &n.polygons, &front, &back)
	}
	if len(front) > 0 {
		if n.front == nil {
			n.front = &Node{eps: n.eps}
		}
		n.front.Build(front)
	}
	if len(back) > 0 {
		if n.back == nil {
			n.back = &Node{eps: n.eps}
		}
		n.back.Build(back)
	}
}
