package kernel

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which design graph part this came from
	Color    string    `json:"color,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) [3][3]float32 {
	var t [3][3]float32
	for j := 0; j < 3; j++ {
		v := m.Indices[3*i+j] * 3
		t[j] = [3]float32{m.Vertices[v], m.Vertices[v+1], m.Vertices[v+2]}
	}
	return t
}

// AddTriangle appends a triangle with a shared face normal. Vertices are
// not deduplicated.
func (m *Mesh) AddTriangle(a, b, c, normal [3]float32) {
	base := uint32(m.VertexCount())
	for _, v := range [3][3]float32{a, b, c} {
		m.Vertices = append(m.Vertices, v[0], v[1], v[2])
		m.Normals = append(m.Normals, normal[0], normal[1], normal[2])
	}
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// Bounds returns the axis-aligned box of the vertices. An empty mesh
// returns zero vectors.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if m.IsEmpty() {
		return min, max
	}
	for i := 0; i < 3; i++ {
		min[i], max[i] = m.Vertices[i], m.Vertices[i]
	}
	for v := 3; v < len(m.Vertices); v += 3 {
		for i := 0; i < 3; i++ {
			x := m.Vertices[v+i]
			if x < min[i] {
				min[i] = x
			}
			if x > max[i] {
				max[i] = x
			}
		}
	}
	return min, max
}
