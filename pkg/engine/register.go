package engine

import (
	"fmt"

	"github.com/chazu/csgkit/pkg/graph"
	"github.com/chazu/csgkit/pkg/shapes"
	zygo "github.com/glycerine/zygomys/zygo"
)

// builder accumulates the design graph for one evaluation. Anonymous
// nodes are numbered per operation, so the same source always yields the
// same IDs.
type builder struct {
	g      *graph.DesignGraph
	counts map[string]int
}

func newBuilder(g *graph.DesignGraph) *builder {
	return &builder{g: g, counts: make(map[string]int)}
}

// add assigns n an ID of the form "op/N" and inserts it.
func (b *builder) add(op string, n *graph.Node) *sexpNodeRef {
	b.counts[op]++
	n.ID = graph.NewNodeID(fmt.Sprintf("%s/%d", op, b.counts[op]))
	b.g.AddNode(n)
	return &sexpNodeRef{id: n.ID, name: n.Name}
}

func (b *builder) primitive(op string, data graph.NodeData) *sexpNodeRef {
	return b.add(op, &graph.Node{Kind: graph.NodePrimitive, Data: data})
}

// name attaches name to the node behind id. An anonymous node is renamed
// in place; a node that already has a name is copied under a new ID so
// both names stay valid.
func (b *builder) name(id graph.NodeID, name string) (*sexpNodeRef, error) {
	if b.g.Lookup(name) != nil {
		return nil, fmt.Errorf("part %q is already defined", name)
	}
	n := b.g.Get(id)
	if n == nil {
		return nil, fmt.Errorf("node %s does not exist", id.Short())
	}
	if n.Name == "" {
		n.Name = name
		b.g.NameIndex[name] = n.ID
		return &sexpNodeRef{id: n.ID, name: name}, nil
	}
	cp := *n
	cp.ID = graph.NewNodeID("defpart/" + name)
	cp.Name = name
	cp.Children = append([]graph.NodeID(nil), n.Children...)
	b.g.AddNode(&cp)
	return &sexpNodeRef{id: cp.ID, name: name}, nil
}

type builtin func(b *builder, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs all csgkit DSL builtins into a zygomys
// environment. The builtins operate on the builder's DesignGraph,
// populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	fns := map[string]builtin{
		"cube":       cube,
		"sphere":     sphere,
		"cylinder":   cylinder,
		"cone":       cone,
		"vec3":       vec3,
		"move":       move,
		"place":      move,
		"rotate":     rotate,
		"scale":      scale,
		"union":      boolean(graph.BoolUnion),
		"difference": boolean(graph.BoolDifference),
		"intersect":  boolean(graph.BoolIntersect),
		"hull":       hull,
		"defpart":    defpart,
		"part":       part,
		"assembly":   assembly,
		"color":      color,
	}
	for _, k := range shapes.Kinds {
		fns[string(k)] = polyhedron(k)
	}
	for name, fn := range fns {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			res, err := fn(b, name, args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return res, nil
		})
	}
}

// ---------------------------------------------------------------------------
// (cube 10) (cube 10 20 30) (cube (vec3 10 20 30) :center true)
// ---------------------------------------------------------------------------
func cube(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var size graph.Vec3
	var err error
	if v, ok := pa.kw["size"]; ok {
		size, err = toVec3(v)
	} else {
		size, err = vecArgs(pa.positional)
	}
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	center, err := pa.flag("center")
	if err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	return b.primitive("cube", graph.BoxData{Size: size, Center: center}), nil
}

// ---------------------------------------------------------------------------
// (sphere 5) (sphere :r 5 :segments 64)
// ---------------------------------------------------------------------------
func sphere(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	r, err := pa.number("r", 0, 1)
	if err != nil {
		return nil, fmt.Errorf("r: %w", err)
	}
	seg, err := pa.integer("segments", 0)
	if err != nil {
		return nil, fmt.Errorf("segments: %w", err)
	}
	return b.primitive("sphere", graph.SphereData{Radius: r, Segments: seg}), nil
}

func roundArgs(pa kwArgs, defTop func(r float64) float64) (graph.CylinderData, error) {
	var d graph.CylinderData
	var err error
	if d.Height, err = pa.number("h", 0, 1); err != nil {
		return d, fmt.Errorf("h: %w", err)
	}
	if d.Radius, err = pa.number("r", 1, 1); err != nil {
		return d, fmt.Errorf("r: %w", err)
	}
	if d.TopRadius, err = pa.number("r2", 2, defTop(d.Radius)); err != nil {
		return d, fmt.Errorf("r2: %w", err)
	}
	if d.Segments, err = pa.integer("segments", 0); err != nil {
		return d, fmt.Errorf("segments: %w", err)
	}
	if v, ok := pa.kw["axis"]; ok {
		if d.Axis, err = toAxis(v); err != nil {
			return d, err
		}
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// (cylinder :h 10 :r 2) (cylinder 10 2 :axis :x) (cylinder :h 10 :r 2 :r2 1)
// ---------------------------------------------------------------------------
func cylinder(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	d, err := roundArgs(parseArgs(args), func(r float64) float64 { return r })
	if err != nil {
		return nil, err
	}
	return b.primitive("cylinder", d), nil
}

// ---------------------------------------------------------------------------
// (cone :h 10 :r 5) comes to a point unless :r2 is given
// ---------------------------------------------------------------------------
func cone(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	d, err := roundArgs(parseArgs(args), func(float64) float64 { return 0 })
	if err != nil {
		return nil, err
	}
	return b.primitive("cone", d), nil
}

// ---------------------------------------------------------------------------
// (octahedron 5) (dodecahedron :r 5)
// ---------------------------------------------------------------------------
func polyhedron(kind shapes.Kind) builtin {
	return func(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := parseArgs(args).number("r", 0, 1)
		if err != nil {
			return nil, fmt.Errorf("r: %w", err)
		}
		return b.primitive(string(kind), graph.PolyhedronData{Shape: string(kind), Radius: r}), nil
	}
}

// ---------------------------------------------------------------------------
// (vec3 1 2 3)
// ---------------------------------------------------------------------------
func vec3(_ *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
	}
	v, err := vecArgs(args)
	if err != nil {
		return nil, err
	}
	return &sexpVec3{vec: v}, nil
}

func transform(b *builder, op string, children []zygo.Sexp, td graph.TransformData) (zygo.Sexp, error) {
	ids, err := toNodeRefs(children)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("requires a node reference")
	}
	return b.add(op, &graph.Node{Kind: graph.NodeTransform, Children: ids, Data: td}), nil
}

// ---------------------------------------------------------------------------
// (move ref :at (vec3 0 0 19) :rotate (vec3 0 0 90) :scale 2) (move ref 1 2 3)
// ---------------------------------------------------------------------------
func move(b *builder, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	refs, rest := splitOperands(pa.positional)
	var td graph.TransformData
	if len(rest) > 0 {
		vec, err := vecArgs(rest)
		if err != nil {
			return nil, err
		}
		td.Translation = vec
	}
	if v, ok := pa.kw["at"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("at: %w", err)
		}
		td.Translation = vec
	}
	if v, ok := pa.kw["rotate"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("rotate: %w", err)
		}
		td.Rotation = vec
	}
	if v, ok := pa.kw["scale"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("scale: %w", err)
		}
		td.Scale = &vec
	}
	return transform(b, name, refs, td)
}

// splitOperands separates the leading node arguments from a trailing
// vector given as one vec3 or three numbers.
func splitOperands(args []zygo.Sexp) (refs, vec []zygo.Sexp) {
	i := len(args)
	for i > 0 {
		if _, ok := args[i-1].(*sexpNodeRef); ok {
			break
		}
		if _, err := sexpListToSlice(args[i-1]); err == nil {
			break
		}
		i--
	}
	return args[:i], args[i:]
}

// ---------------------------------------------------------------------------
// (rotate ref 0 0 90) (rotate ref (vec3 0 0 90)) (rotate ref :z 90)
// ---------------------------------------------------------------------------
func rotate(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	refs, rest := splitOperands(pa.positional)
	var td graph.TransformData
	if len(rest) > 0 {
		vec, err := vecArgs(rest)
		if err != nil {
			return nil, err
		}
		td.Rotation = vec
	}
	for axis, dst := range map[string]*float64{"x": &td.Rotation.X, "y": &td.Rotation.Y, "z": &td.Rotation.Z} {
		if v, ok := pa.kw[axis]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", axis, err)
			}
			*dst = f
		}
	}
	return transform(b, "rotate", refs, td)
}

// ---------------------------------------------------------------------------
// (scale ref 2) (scale ref 1 2 1) (scale ref (vec3 1 2 1))
// ---------------------------------------------------------------------------
func scale(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	refs, rest := splitOperands(args)
	if len(rest) == 0 {
		return nil, fmt.Errorf("requires a scale factor")
	}
	vec, err := vecArgs(rest)
	if err != nil {
		return nil, err
	}
	return transform(b, "scale", refs, graph.TransformData{Scale: &vec})
}

// ---------------------------------------------------------------------------
// (union a b c) (difference base tool...) (intersect a b)
// ---------------------------------------------------------------------------
func boolean(op graph.BoolOp) builtin {
	return func(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		ids, err := toNodeRefs(args)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("requires at least one operand")
		}
		return b.add(string(op), &graph.Node{Kind: graph.NodeBoolean, Children: ids, Data: graph.BooleanData{Op: op}}), nil
	}
}

// ---------------------------------------------------------------------------
// (hull a b ...)
// ---------------------------------------------------------------------------
func hull(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	ids, err := toNodeRefs(args)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("requires at least one operand")
	}
	return b.add("hull", &graph.Node{Kind: graph.NodeHull, Children: ids, Data: graph.HullData{}}), nil
}

// ---------------------------------------------------------------------------
// (defpart "name" expr)
// ---------------------------------------------------------------------------
func defpart(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("requires a name and a body expression")
	}
	partName, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if partName == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	id, err := toNodeRef(args[1])
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	ref, err := b.name(id, partName)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// ---------------------------------------------------------------------------
// (part "name")
// ---------------------------------------------------------------------------
func part(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("requires a name argument")
	}
	partName, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	n := b.g.Lookup(partName)
	if n == nil {
		return nil, fmt.Errorf("no part named %q", partName)
	}
	return &sexpNodeRef{id: n.ID, name: partName}, nil
}

// ---------------------------------------------------------------------------
// (assembly "name" (move ...) (part "x") ...)
// ---------------------------------------------------------------------------
func assembly(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("requires a name argument")
	}
	asmName, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if b.g.Lookup(asmName) != nil {
		return nil, fmt.Errorf("%q is already defined", asmName)
	}
	children, err := toNodeRefs(args[1:])
	if err != nil {
		return nil, err
	}
	id := graph.NewNodeID("assembly/" + asmName)
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     graph.NodeGroup,
		Name:     asmName,
		Children: children,
		Data:     graph.GroupData{Description: "assembly"},
	})
	b.g.AddRoot(id)
	return &sexpNodeRef{id: id, name: asmName}, nil
}

// ---------------------------------------------------------------------------
// (color "#cc3300" ref ...)
// ---------------------------------------------------------------------------
func color(b *builder, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("requires a color and at least one node")
	}
	c, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	children, err := toNodeRefs(args[1:])
	if err != nil {
		return nil, err
	}
	return b.add("color", &graph.Node{Kind: graph.NodeGroup, Children: children, Data: graph.GroupData{Color: c}}), nil
}
