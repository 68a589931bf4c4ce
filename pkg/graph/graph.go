package graph

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultSegments is the facet count for round primitives that leave
// theirs unset.
const DefaultSegments = 32

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Segments int    `json:"segments"`        // facets for round primitives
	Units    string `json:"units"`           // "mm" is the only option
	Color    string `json:"color,omitempty"` // fallback part color
}

// DesignGraph is the top-level immutable data structure produced by Lisp evaluation.
// It is never mutated in place; each evaluation produces a new graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	Version   uint64            `json:"version"`
}

// New creates an empty DesignGraph with default settings.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			Segments: DefaultSegments,
			Units:    "mm",
		},
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
// A node without a content hash gets one computed from its kind, data and
// the hashes of children already in the graph, so children should be
// added before their parents.
func (g *DesignGraph) AddNode(n *Node) {
	if n.ContentHash.IsZero() {
		n.ContentHash = g.hash(n)
	}
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

func (g *DesignGraph) hash(n *Node) ContentHash {
	children := make([]string, len(n.Children))
	for i, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children[i] = fmt.Sprintf("%x", c.ContentHash)
		} else {
			children[i] = cid.String()
		}
	}
	data, _ := json.Marshal(struct {
		Kind     string   `json:"kind"`
		Type     string   `json:"type"`
		Data     NodeData `json:"data"`
		Children []string `json:"children"`
	}{n.Kind.String(), fmt.Sprintf("%T", n.Data), n.Data, children})
	return ContentHash(sha256.Sum256(data))
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Parts returns all named nodes sorted by name.
func (g *DesignGraph) Parts() []*Node {
	var parts []*Node
	for _, n := range g.Nodes {
		if n.Name != "" {
			parts = append(parts, n)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })
	return parts
}

// Primitives returns all primitive nodes in the graph.
func (g *DesignGraph) Primitives() []*Node {
	var prims []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodePrimitive {
			prims = append(prims, n)
		}
	}
	return prims
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}

// Segments returns n, or the graph default when n is not positive.
func (g *DesignGraph) Segments(n int) int {
	if n > 0 {
		return n
	}
	if g.Defaults.Segments > 0 {
		return g.Defaults.Segments
	}
	return DefaultSegments
}
