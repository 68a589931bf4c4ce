// Package tessellate evaluates a design graph into kernel solids and
// triangle meshes. One mesh is produced per part.
package tessellate

import (
	"context"
	"runtime"

	"github.com/chazu/csgkit/pkg/graph"
	"github.com/chazu/csgkit/pkg/kernel"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// contextMesher is implemented by kernels whose meshing can be cancelled.
type contextMesher interface {
	ToMeshContext(ctx context.Context, s kernel.Solid) (*kernel.Mesh, error)
}

// Part is a node that renders as its own mesh.
type Part struct {
	Node  *graph.Node
	Name  string
	Color string // "#rrggbb", empty when nothing assigns one
}

// Parts lists the renderable parts of g. Each root is a part, except that
// unnamed groups and root groups (assemblies) are opened up and their
// children listed instead, passing their color down. A graph without
// roots renders its top-level named nodes, in name order.
func Parts(g *graph.DesignGraph) []Part {
	if g == nil {
		return nil
	}
	var parts []Part
	seen := make(map[graph.NodeID]bool)

	var visit func(n *graph.Node, color string, open bool)
	visit = func(n *graph.Node, color string, open bool) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		if gd, ok := n.Data.(graph.GroupData); ok && (open || n.Name == "") {
			if gd.Color != "" {
				color = gd.Color
			}
			for _, c := range g.Children(n) {
				visit(c, color, false)
			}
			return
		}
		if own := chainColor(g, n); own != "" {
			color = own
		}
		parts = append(parts, Part{Node: n, Name: partName(g, n), Color: color})
	}

	if len(g.Roots) > 0 {
		for _, id := range g.Roots {
			if n := g.Get(id); n != nil {
				visit(n, g.Defaults.Color, true)
			}
		}
		return parts
	}

	nested := descendantsOfNamed(g)
	for _, n := range g.Parts() {
		if !nested[n.ID] {
			visit(n, g.Defaults.Color, false)
		}
	}
	return parts
}

// descendantsOfNamed returns every node strictly below a named node.
func descendantsOfNamed(g *graph.DesignGraph) map[graph.NodeID]bool {
	below := make(map[graph.NodeID]bool)
	var walk func(n *graph.Node)
	walk = func(n *graph.Node) {
		for _, c := range g.Children(n) {
			if !below[c.ID] {
				below[c.ID] = true
				walk(c)
			}
		}
	}
	for _, n := range g.Parts() {
		walk(n)
	}
	return below
}

// singleChain follows single-child transforms and groups starting at n.
func singleChain(g *graph.DesignGraph, n *graph.Node) []*graph.Node {
	chain := []*graph.Node{n}
	for len(n.Children) == 1 && (n.Kind == graph.NodeTransform || n.Kind == graph.NodeGroup) {
		c := g.Get(n.Children[0])
		if c == nil || lo.Contains(chain, c) {
			break
		}
		chain = append(chain, c)
		n = c
	}
	return chain
}

// partName prefers the node's name, then a name along its single-child
// chain, then the short ID.
func partName(g *graph.DesignGraph, n *graph.Node) string {
	if named, ok := lo.Find(singleChain(g, n), func(c *graph.Node) bool { return c.Name != "" }); ok {
		return named.Name
	}
	return n.ID.Short()
}

// chainColor returns the outermost group color on n's single-child chain.
func chainColor(g *graph.DesignGraph, n *graph.Node) string {
	for _, c := range singleChain(g, n) {
		if gd, ok := c.Data.(graph.GroupData); ok && gd.Color != "" {
			return gd.Color
		}
	}
	return ""
}

// Tessellate evaluates every part of g with the provided geometry kernel
// and returns one mesh per part. The tessellator is read-only and never
// mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	return TessellateContext(context.Background(), g, k)
}

// TessellateContext is Tessellate with cancellation. Solids are built
// sequentially, sharing structurally identical subtrees; meshing runs in
// parallel.
func TessellateContext(ctx context.Context, g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	parts := Parts(g)
	ev := NewEvaluator(g, k)
	solids := make([]kernel.Solid, len(parts))
	for i, p := range parts {
		s, err := ev.Solid(p.Node.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "tessellate: part %q", p.Name)
		}
		solids[i] = s
	}

	meshes := make([]*kernel.Mesh, len(parts))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range parts {
		eg.Go(func() error {
			m, err := toMesh(ctx, k, solids[i])
			if err != nil {
				return errors.Wrapf(err, "tessellate: ToMesh failed for part %q", p.Name)
			}
			m.PartName = p.Name
			if p.Color != "" {
				m.Color = p.Color
			}
			meshes[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

func toMesh(ctx context.Context, k kernel.Kernel, s kernel.Solid) (*kernel.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cm, ok := k.(contextMesher); ok {
		return cm.ToMeshContext(ctx, s)
	}
	return k.ToMesh(s)
}
