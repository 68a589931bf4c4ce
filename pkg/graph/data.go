package graph

// BoxData describes an axis-aligned box. Without Center the minimum
// corner sits on the origin.
type BoxData struct {
	Size   Vec3 `json:"size"`
	Center bool `json:"center,omitempty"`
}

func (BoxData) nodeData() {}

// SphereData describes a UV sphere centered on the origin.
type SphereData struct {
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"` // 0 means the graph default
}

func (SphereData) nodeData() {}

// CylinderData describes a cylinder or truncated cone centered on the
// origin. TopRadius equals Radius for a straight cylinder.
type CylinderData struct {
	Height    float64 `json:"height"`
	Radius    float64 `json:"radius"`
	TopRadius float64 `json:"top_radius"`
	Segments  int     `json:"segments,omitempty"`
	Axis      Axis    `json:"axis"`
}

func (CylinderData) nodeData() {}

// IsCone reports whether the two radii differ.
func (d CylinderData) IsCone() bool { return d.Radius != d.TopRadius }

// PolyhedronData describes a regular polyhedron by circumradius.
type PolyhedronData struct {
	Shape  string  `json:"shape"` // tetrahedron, octahedron, icosahedron, dodecahedron
	Radius float64 `json:"radius"`
}

func (PolyhedronData) nodeData() {}

// TransformData places its children. Scale is applied first, then the
// rotation (degrees about X, Y, Z), then the translation.
type TransformData struct {
	Translation Vec3  `json:"translation"`
	Rotation    Vec3  `json:"rotation"`
	Scale       *Vec3 `json:"scale,omitempty"` // nil means unit scale
}

func (TransformData) nodeData() {}

// ScaleOrUnit returns the scale vector, defaulting to (1, 1, 1).
func (d TransformData) ScaleOrUnit() Vec3 {
	if d.Scale == nil {
		return Vec3{1, 1, 1}
	}
	return *d.Scale
}

// BoolOp selects a boolean operation.
type BoolOp string

const (
	BoolUnion      BoolOp = "union"
	BoolDifference BoolOp = "difference"
	BoolIntersect  BoolOp = "intersect"
)

// BooleanData folds the children left to right with Op. For a difference
// the first child is the base and the rest are tools.
type BooleanData struct {
	Op BoolOp `json:"op"`
}

func (BooleanData) nodeData() {}

// HullData marks the convex hull of all children.
type HullData struct{}

func (HullData) nodeData() {}

// GroupData collects children under an assembly or a color. Color is a
// "#rrggbb" string and is inherited by children without one.
type GroupData struct {
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

func (GroupData) nodeData() {}
