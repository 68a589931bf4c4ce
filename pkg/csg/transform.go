package csg

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Transform is an affine 4x4 transform. Each builder method returns a new
// transform that applies its operation after the ones already recorded.
type Transform struct {
	m sdf.M44
}

// Identity returns the transform that changes nothing.
func Identity() Transform {
	return Transform{m: sdf.Identity3d()}
}

// FromM44 wraps an sdfx matrix.
func FromM44(m sdf.M44) Transform {
	return Transform{m: m}
}

// M44 returns the sdfx matrix.
func (t Transform) M44() sdf.M44 { return t.m }

func (t Transform) then(m sdf.M44) Transform {
	return Transform{m: m.Mul(t.m)}
}

// Then returns the transform that applies t and then o.
func (t Transform) Then(o Transform) Transform {
	return t.then(o.m)
}

// Translate appends a translation.
func (t Transform) Translate(x, y, z float64) Transform {
	return t.then(sdf.Translate3d(Vec(x, y, z)))
}

// RotX appends a rotation about the X axis, in degrees.
func (t Transform) RotX(deg float64) Transform {
	return t.then(sdf.RotateX(radians(deg)))
}

// RotY appends a rotation about the Y axis, in degrees.
func (t Transform) RotY(deg float64) Transform {
	return t.then(sdf.RotateY(radians(deg)))
}

// RotZ appends a rotation about the Z axis, in degrees.
func (t Transform) RotZ(deg float64) Transform {
	return t.then(sdf.RotateZ(radians(deg)))
}

// Rot appends rotations about X, then Y, then Z, in degrees.
func (t Transform) Rot(x, y, z float64) Transform {
	return t.RotX(x).RotY(y).RotZ(z)
}

// Scale appends a per-axis scale.
func (t Transform) Scale(x, y, z float64) Transform {
	return t.then(sdf.Scale3d(Vec(x, y, z)))
}

// MirrorX appends a reflection across the YZ plane.
func (t Transform) MirrorX() Transform {
	return t.Scale(-1, 1, 1)
}

// MirrorY appends a reflection across the XZ plane.
func (t Transform) MirrorY() Transform {
	return t.Scale(1, -1, 1)
}

// MirrorZ appends a reflection across the XY plane.
func (t Transform) MirrorZ() Transform {
	return t.Scale(1, 1, -1)
}

// Apply maps a point through the transform.
func (t Transform) Apply(v Vector3d) Vector3d {
	return t.m.MulPosition(v)
}

// IsMirror reports whether the transform reverses handedness.
func (t Transform) IsMirror() bool {
	return t.m.Determinant() < 0
}

// Inverse returns the inverse transform.
func (t Transform) Inverse() Transform {
	return Transform{m: t.m.Inverse()}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// alignToZ returns a rotation taking unit normal n onto +Z.
func alignToZ(n Vector3d) Transform {
	const tol = 1e-12
	if n.Z >= 1-tol {
		return Identity()
	}
	if n.Z <= -1+tol {
		return Identity().RotX(180)
	}
	axis := n.Cross(ZOne).Normalize()
	angle := math.Acos(math.Max(-1, math.Min(1, n.Z)))
	r := Transform{m: sdf.Rotate3d(axis, angle)}
	if r.Apply(n).Z < 1-1e-6 {
		r = Transform{m: sdf.Rotate3d(axis, -angle)}
	}
	return r
}
