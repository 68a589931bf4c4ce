package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/kernel/bsp"
	"github.com/chazu/csgkit/pkg/kernel/sdfx"
	"github.com/chazu/csgkit/pkg/shapes"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// parseSolid builds a solid from a string of the form KIND:DIMS[@X,Y,Z].
//
//	cube:20            20 mm cube centered on the origin
//	cube:10x20x5       box
//	sphere:8           radius 8
//	cylinder:30x4      height 30, radius 4
//	cylinder:30x4x2    cone frustum with top radius 2
//	icosahedron:10     regular solid with circumradius 10
//
// The optional @X,Y,Z suffix moves the solid.
func parseSolid(spec string, segments int, cfg *csg.Config) (*csg.CSG, error) {
	body, at, moved := strings.Cut(spec, "@")
	kind, dimStr, ok := strings.Cut(body, ":")
	if !ok {
		return nil, errors.Errorf("solid %q: want KIND:DIMS", spec)
	}
	dims, err := parseFloats(dimStr, "x")
	if err != nil {
		return nil, errors.Wrapf(err, "solid %q", spec)
	}
	if lo.SomeBy(dims, func(d float64) bool { return d < 0 }) {
		return nil, errors.Errorf("solid %q: sizes must not be negative", spec)
	}

	var c *csg.CSG
	switch kind {
	case "cube", "box":
		switch len(dims) {
		case 1:
			c = shapes.Cube(csg.Vec(dims[0], dims[0], dims[0]), true)
		case 3:
			c = shapes.Cube(csg.Vec(dims[0], dims[1], dims[2]), true)
		default:
			return nil, errors.Errorf("solid %q: cube takes 1 or 3 sizes", spec)
		}
	case "sphere":
		if len(dims) != 1 {
			return nil, errors.Errorf("solid %q: sphere takes a radius", spec)
		}
		c = shapes.Sphere(dims[0], segments)
	case "cylinder", "cone":
		switch len(dims) {
		case 2:
			top := dims[1]
			if kind == "cone" {
				top = 0
			}
			c = shapes.Cone(dims[0], dims[1], top, segments)
		case 3:
			c = shapes.Cone(dims[0], dims[1], dims[2], segments)
		default:
			return nil, errors.Errorf("solid %q: %s takes HxR or HxRxR2", spec, kind)
		}
	default:
		k, err := shapes.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		if len(dims) != 1 {
			return nil, errors.Errorf("solid %q: %s takes a radius", spec, kind)
		}
		if c, err = shapes.Polyhedron(k, dims[0], cfg); err != nil {
			return nil, err
		}
	}

	c = c.WithConfig(cfg)
	if moved {
		p, err := parseFloats(at, ",")
		if err != nil || len(p) != 3 {
			return nil, errors.Errorf("solid %q: want @X,Y,Z", spec)
		}
		c = c.Move(p[0], p[1], p[2])
	}
	return c, nil
}

func parseFloats(s, sep string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, sep) {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Errorf("bad number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// parsePoints reads "x,y,z x,y,z ..." into a point cloud.
func parsePoints(s string) ([]csg.Vector3d, error) {
	var pts []csg.Vector3d
	for _, f := range strings.Fields(s) {
		p, err := parseFloats(f, ",")
		if err != nil {
			return nil, err
		}
		if len(p) != 3 {
			return nil, errors.Errorf("point %q: want x,y,z", f)
		}
		pts = append(pts, csg.Vec(p[0], p[1], p[2]))
	}
	return pts, nil
}

// summarize triangulates c and prints its metrics.
func summarize(ctx context.Context, w io.Writer, c *csg.CSG) (*csg.CSG, error) {
	tri, err := c.TriangulateContext(ctx, true)
	if err != nil {
		return nil, err
	}
	b := c.Bounds()
	fmt.Fprintf(w, "polygons:  %d\n", len(c.Polygons()))
	fmt.Fprintf(w, "triangles: %d\n", len(tri.Polygons()))
	fmt.Fprintf(w, "volume:    %.4f\n", c.Volume())
	fmt.Fprintf(w, "area:      %.4f\n", c.SurfaceArea())
	if !c.IsEmpty() {
		fmt.Fprintf(w, "bounds:    %v .. %v\n", b.Min, b.Max)
	}
	return tri, nil
}

// saveSTL writes an already triangulated solid.
func saveSTL(path string, tri *csg.CSG) error {
	if tri.IsEmpty() {
		return errors.New("result is empty, nothing to write")
	}
	return sdfx.SaveSTL(path, bsp.Mesh(tri))
}
