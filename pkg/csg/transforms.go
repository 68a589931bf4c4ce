package csg

// Transformed returns a copy of c moved through t. Polygons that collapse
// under the transform are dropped and reported.
func (c *CSG) Transformed(t Transform) *CSG {
	out := make([]*Polygon, 0, len(c.polygons))
	dropped := 0
	var lastErr error
	for _, p := range c.polygons {
		tp, err := p.Transformed(t)
		if err != nil {
			dropped++
			lastErr = err
			continue
		}
		out = append(out, tp)
	}
	if dropped > 0 {
		c.cfg.report(Diagnostic{
			Stage:    StageTransform,
			Message:  "removed polygons that became invalid under transform",
			Polygons: dropped,
			Err:      lastErr,
		})
	}
	res := c.derive(out)
	res.name = c.name
	res.triangulated = c.triangulated
	return res
}

// Move translates by (x, y, z).
func (c *CSG) Move(x, y, z float64) *CSG {
	return c.Transformed(Identity().Translate(x, y, z))
}

// MoveVec translates by v.
func (c *CSG) MoveVec(v Vector3d) *CSG { return c.Move(v.X, v.Y, v.Z) }

func (c *CSG) MoveX(d float64) *CSG { return c.Move(d, 0, 0) }
func (c *CSG) MoveY(d float64) *CSG { return c.Move(0, d, 0) }
func (c *CSG) MoveZ(d float64) *CSG { return c.Move(0, 0, d) }

// Rot rotates about X, then Y, then Z. Angles are in degrees.
func (c *CSG) Rot(x, y, z float64) *CSG {
	return c.Transformed(Identity().Rot(x, y, z))
}

func (c *CSG) RotX(deg float64) *CSG { return c.Transformed(Identity().RotX(deg)) }
func (c *CSG) RotY(deg float64) *CSG { return c.Transformed(Identity().RotY(deg)) }
func (c *CSG) RotZ(deg float64) *CSG { return c.Transformed(Identity().RotZ(deg)) }

// Scale scales uniformly about the origin.
func (c *CSG) Scale(s float64) *CSG { return c.ScaleXYZ(s, s, s) }

// ScaleXYZ scales each axis about the origin.
func (c *CSG) ScaleXYZ(x, y, z float64) *CSG {
	return c.Transformed(Identity().Scale(x, y, z))
}

func (c *CSG) ScaleX(s float64) *CSG { return c.ScaleXYZ(s, 1, 1) }
func (c *CSG) ScaleY(s float64) *CSG { return c.ScaleXYZ(1, s, 1) }
func (c *CSG) ScaleZ(s float64) *CSG { return c.ScaleXYZ(1, 1, s) }

func (c *CSG) MirrorX() *CSG { return c.Transformed(Identity().MirrorX()) }
func (c *CSG) MirrorY() *CSG { return c.Transformed(Identity().MirrorY()) }
func (c *CSG) MirrorZ() *CSG { return c.Transformed(Identity().MirrorZ()) }

// ToXMin moves the solid so its lowest X is 0.
func (c *CSG) ToXMin() *CSG { return c.MoveX(-c.Min().X) }

// ToXMax moves the solid so its highest X is 0.
func (c *CSG) ToXMax() *CSG { return c.MoveX(-c.Max().X) }
func (c *CSG) ToYMin() *CSG { return c.MoveY(-c.Min().Y) }
func (c *CSG) ToYMax() *CSG { return c.MoveY(-c.Max().Y) }
func (c *CSG) ToZMin() *CSG { return c.MoveZ(-c.Min().Z) }
func (c *CSG) ToZMax() *CSG { return c.MoveZ(-c.Max().Z) }

// MoveToCenter moves the bounding box center to the origin.
func (c *CSG) MoveToCenter() *CSG {
	return c.MoveVec(c.Center().Neg())
}
