package csg

import "github.com/samber/lo"

func (c *CSG) eps() float64 { return c.cfg.Epsilon }

func (c *CSG) unionNoOpt(o *CSG) *CSG {
	a := NewNode(c.Clone().polygons, c.eps())
	b := NewNode(o.Clone().polygons, c.eps())
	a.ClipTo(b)
	b.ClipTo(a)
	b.Invert()
	b.ClipTo(a)
	b.Invert()
	a.Build(b.AllPolygons())
	return c.withName(o, c.derive(a.AllPolygons()))
}

func (c *CSG) differenceNoOpt(o *CSG) *CSG {
	a := NewNode(c.Clone().polygons, c.eps())
	b := NewNode(o.Clone().polygons, c.eps())
	a.Invert()
	a.ClipTo(b)
	b.ClipTo(a)
	b.Invert()
	b.ClipTo(a)
	b.Invert()
	a.Build(b.AllPolygons())
	a.Invert()
	return c.withName(o, c.derive(a.AllPolygons()))
}

func (c *CSG) intersectNoOpt(o *CSG) *CSG {
	a := NewNode(c.Clone().polygons, c.eps())
	b := NewNode(o.Clone().polygons, c.eps())
	a.Invert()
	b.ClipTo(a)
	b.Invert()
	a.ClipTo(b)
	b.ClipTo(a)
	a.Build(b.AllPolygons())
	a.Invert()
	return c.withName(o, c.derive(a.AllPolygons()))
}

// overlaps reports whether the bounding boxes of c and o meet. An empty
// solid overlaps nothing.
func (c *CSG) overlaps(o *CSG) bool {
	if c.IsEmpty() || o.IsEmpty() {
		return false
	}
	return c.Bounds().Intersects(o.Bounds())
}

// partition splits c's polygons into those whose boxes meet b and the rest.
func (c *CSG) partition(b Bounds) (inner, outer []*Polygon) {
	for _, p := range c.polygons {
		if b.Intersects(p.Bounds()) {
			inner = append(inner, p)
		} else {
			outer = append(outer, p)
		}
	}
	return inner, outer
}

func (c *CSG) concat(o *CSG) *CSG {
	return c.withName(o, c.derive(append(c.Clone().polygons, o.Clone().polygons...)))
}

func clonePolygons(ps []*Polygon) []*Polygon {
	return lo.Map(ps, func(p *Polygon, _ int) *Polygon { return p.Clone() })
}

// unionBounded is the bounding-box fast path for union.
func (c *CSG) unionBounded(o *CSG) *CSG {
	if c.overlaps(o) {
		return c.unionNoOpt(o)
	}
	return c.concat(o)
}

// unionPolygonBounded runs the BSP algorithm only on the polygons of c near
// o. When o sits inside c no polygon of c is near it, and the full
// algorithm runs instead.
func (c *CSG) unionPolygonBounded(o *CSG) *CSG {
	if !c.overlaps(o) {
		return c.concat(o)
	}
	inner, outer := c.partition(o.Bounds())
	if len(inner) == 0 {
		return c.unionNoOpt(o)
	}
	in := c.derive(inner).unionNoOpt(o)
	return c.withName(o, c.derive(append(clonePolygons(outer), in.polygons...)))
}

func (c *CSG) union(o *CSG) *CSG {
	switch c.cfg.OptType {
	case OptCSGBound:
		return c.unionBounded(o)
	case OptPolygonBound:
		return c.unionPolygonBounded(o)
	default:
		return c.unionNoOpt(o)
	}
}

// differenceBounded cuts c along o's box, subtracts o from the part inside
// the box and puts the two halves back together.
func (c *CSG) differenceBounded(o *CSG) *CSG {
	if !c.overlaps(o) {
		return c.Clone()
	}
	boxCSG := o.Bounds().ToCSG().WithConfig(c.cfg)
	outside := c.differenceNoOpt(boxCSG)
	inside := c.intersectNoOpt(boxCSG)
	out := inside.differenceNoOpt(o).unionBounded(outside)
	out.meta = c.meta
	return c.withName(o, out)
}

func (c *CSG) differencePolygonBounded(o *CSG) *CSG {
	if !c.overlaps(o) {
		return c.Clone()
	}
	inner, outer := c.partition(o.Bounds())
	if len(inner) == 0 {
		return c.differenceNoOpt(o)
	}
	in := c.derive(inner).differenceNoOpt(o)
	return c.withName(o, c.derive(append(clonePolygons(outer), in.polygons...)))
}

func (c *CSG) difference(o *CSG) *CSG {
	switch c.cfg.OptType {
	case OptCSGBound:
		return c.differenceBounded(o)
	case OptPolygonBound:
		return c.differencePolygonBounded(o)
	default:
		return c.differenceNoOpt(o)
	}
}

// intersect skips the BSP algorithm under OptCSGBound when the boxes are
// apart, since the result is then empty.
func (c *CSG) intersect(o *CSG) *CSG {
	if c.cfg.OptType == OptCSGBound && !c.overlaps(o) {
		return c.withName(o, c.derive(nil))
	}
	return c.intersectNoOpt(o)
}

// UnionResult returns c ∪ o. On failure the result is a copy of c.
func (c *CSG) UnionResult(o *CSG) Result {
	out, err := guard(func() *CSG { return c.union(o) })
	if err != nil {
		return Result{CSG: c.Clone(), Failure: &BooleanOpFailure{Op: "union", Stage: "bsp", Err: err}}
	}
	return Result{CSG: out}
}

// DifferenceResult returns c − o. If the main algorithm fails, the
// difference is retried against o ∩ c only; if that fails too, a copy of c
// is returned. Either way Failure says what happened.
func (c *CSG) DifferenceResult(o *CSG) Result {
	if c.IsEmpty() || o.IsEmpty() {
		return Result{CSG: c.Clone()}
	}
	out, err := guard(func() *CSG { return c.difference(o) })
	if err == nil {
		return Result{CSG: out}
	}
	fail := &BooleanOpFailure{Op: "difference", Stage: "bsp", Err: err}
	out, ferr := guard(func() *CSG {
		overlap := o.WithConfigCopy(c.cfg).intersect(c)
		if overlap.IsEmpty() {
			return c.Clone()
		}
		return c.difference(overlap)
	})
	if ferr != nil {
		fail.Stage, fail.Err = "fallback", ferr
		return Result{CSG: c.Clone(), Failure: fail}
	}
	fail.Recovered = true
	return Result{CSG: out, Failure: fail}
}

// IntersectResult returns c ∩ o. On failure the result is empty.
func (c *CSG) IntersectResult(o *CSG) Result {
	out, err := guard(func() *CSG { return c.intersect(o) })
	if err != nil {
		return Result{CSG: c.derive(nil), Failure: &BooleanOpFailure{Op: "intersect", Stage: "bsp", Err: err}}
	}
	return Result{CSG: out}
}

// unwrap reports a failure to the diagnostics sink and returns the solid.
func (c *CSG) unwrap(r Result) *CSG {
	if r.Failure != nil {
		c.cfg.report(Diagnostic{
			Stage:    StageBoolean,
			Message:  r.Failure.Error(),
			Polygons: len(c.polygons),
			Err:      r.Failure,
		})
	}
	return r.CSG
}

// Union returns c ∪ o. Failures go to the diagnostics sink.
func (c *CSG) Union(o *CSG) *CSG { return c.unwrap(c.UnionResult(o)) }

// Difference returns c − o. Failures go to the diagnostics sink.
func (c *CSG) Difference(o *CSG) *CSG { return c.unwrap(c.DifferenceResult(o)) }

// Intersect returns c ∩ o. Failures go to the diagnostics sink.
func (c *CSG) Intersect(o *CSG) *CSG { return c.unwrap(c.IntersectResult(o)) }

// WithConfigCopy returns a shallow copy of c that uses cfg. The polygons
// are shared, so the copy must only be used as an operand.
func (c *CSG) WithConfigCopy(cfg *Config) *CSG {
	cp := *c
	cp.cfg = cfg
	return &cp
}
