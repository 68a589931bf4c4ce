package csg

// Vertex is a polygon corner. Its normal always mirrors the owning
// polygon's plane normal and is re-derived whenever the polygon changes.
type Vertex struct {
	Pos    Vector3d
	Normal Vector3d
}

// NewVertex returns a vertex at pos with the given normal.
func NewVertex(pos, normal Vector3d) *Vertex {
	return &Vertex{Pos: pos, Normal: normal}
}

// Clone returns an independent copy of v.
func (v *Vertex) Clone() *Vertex {
	c := *v
	return &c
}

// Flip reverses the vertex normal.
func (v *Vertex) Flip() {
	v.Normal = v.Normal.Neg()
}

// Interpolate returns a new vertex on the segment between v and other.
// Position and normal are both interpolated linearly by t.
func (v *Vertex) Interpolate(other *Vertex, t float64) *Vertex {
	return &Vertex{
		Pos:    Lerp(v.Pos, other.Pos, t),
		Normal: Lerp(v.Normal, other.Normal, t),
	}
}

// Transform moves the vertex position through t. The normal is left for
// the owning polygon to re-derive.
func (v *Vertex) Transform(t Transform) {
	v.Pos = t.Apply(v.Pos)
}
