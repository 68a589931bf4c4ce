package csg

import (
	"context"

	"github.com/pkg/errors"
)

// UnionAll unions others into c one at a time, reporting progress after
// each step. If ctx is cancelled the partial result is returned together
// with the context error.
func (c *CSG) UnionAll(ctx context.Context, others ...*CSG) (*CSG, error) {
	result := c
	for i, o := range others {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrapf(err, "csg: union cancelled after %d of %d", i, len(others))
		}
		result = result.Union(o)
		c.cfg.progress(i+1, len(others), "union", result)
	}
	return result, nil
}

// DifferenceAll subtracts the union of others from c.
func (c *CSG) DifferenceAll(ctx context.Context, others ...*CSG) (*CSG, error) {
	if len(others) == 0 {
		return c.Clone(), nil
	}
	tool, err := mergeTools(ctx, c.cfg, "difference", others)
	if err != nil {
		return c.Clone(), err
	}
	return c.Difference(tool), nil
}

// IntersectAll intersects c with the union of others.
func (c *CSG) IntersectAll(ctx context.Context, others ...*CSG) (*CSG, error) {
	if len(others) == 0 {
		return c.Clone(), nil
	}
	tool, err := mergeTools(ctx, c.cfg, "intersect", others)
	if err != nil {
		return c.Clone(), err
	}
	return c.Intersect(tool), nil
}

func mergeTools(ctx context.Context, cfg *Config, stage string, tools []*CSG) (*CSG, error) {
	merged := tools[0]
	for i := 1; i < len(tools); i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "csg: %s cancelled after %d of %d", stage, i, len(tools))
		}
		merged = merged.Union(tools[i])
		cfg.progress(i, len(tools), stage, merged)
	}
	return merged, nil
}

// UnionAll unions every solid in csgs. It returns an empty solid for an
// empty list.
func UnionAll(ctx context.Context, csgs ...*CSG) (*CSG, error) {
	if len(csgs) == 0 {
		return New(nil), nil
	}
	return csgs[0].UnionAll(ctx, csgs[1:]...)
}
