package csg

import "github.com/dhconnelly/rtreego"

// Touching reports whether c and o share volume. Polygon boxes are checked
// against an R-tree of o's polygons first. When no pair overlaps the
// surfaces cannot cross, so the solids share volume only if one box holds
// the other.
func (c *CSG) Touching(o *CSG) bool {
	if c.IsEmpty() || o.IsEmpty() || !c.Bounds().Intersects(o.Bounds()) {
		return false
	}
	objs := make([]rtreego.Spatial, 0, len(o.polygons))
	for i, p := range o.polygons {
		r, err := toRect(p.Bounds().Enlarge(c.cfg.Epsilon))
		if err != nil {
			continue
		}
		objs = append(objs, &indexed{i: i, rect: r})
	}
	tree := rtreego.NewTree(3, 25, 50, objs...)
	near := false
	for _, p := range c.polygons {
		r, err := toRect(p.Bounds())
		if err != nil {
			continue
		}
		if len(tree.SearchIntersect(r, rtreego.LimitFilter(1))) > 0 {
			near = true
			break
		}
	}
	if !near && !nested(c.Bounds(), o.Bounds()) && !nested(o.Bounds(), c.Bounds()) {
		return false
	}
	return !c.Intersect(o).IsEmpty()
}

// nested reports whether inner lies within outer.
func nested(inner, outer Bounds) bool {
	return outer.Contains(inner.Min) && outer.Contains(inner.Max)
}
