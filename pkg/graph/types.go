package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier: the SHA-256 of the node's
// construction path, e.g. "defpart/bracket" or "cube/3".
type NodeID [sha256.Size]byte

// ZeroID is the empty NodeID.
var ZeroID NodeID

// NewNodeID hashes a construction path into a NodeID.
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether id is the zero value.
func (id NodeID) IsZero() bool { return id == ZeroID }

// String returns the full hex form.
func (id NodeID) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first 6 bytes in hex, for messages and part names.
func (id NodeID) Short() string { return hex.EncodeToString(id[:6]) }

// MarshalText encodes the id as hex.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex id.
func (id *NodeID) UnmarshalText(b []byte) error {
	n, err := hex.Decode(id[:], b)
	if err != nil {
		return fmt.Errorf("graph: bad node id: %w", err)
	}
	if n != len(id) {
		return fmt.Errorf("graph: node id has %d bytes, want %d", n, len(id))
	}
	return nil
}

// ContentHash fingerprints a node's kind, data and children's hashes, so
// structurally identical subtrees share a hash whatever their names.
type ContentHash [sha256.Size]byte

// IsZero reports whether h is unset.
func (h ContentHash) IsZero() bool { return h == ContentHash{} }

// MarshalText encodes the hash as hex.
func (h ContentHash) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h[:])), nil
}

// SourceRef points at the expression that created a node.
type SourceRef struct {
	Line int `json:"line,omitempty"`
	Col  int `json:"col,omitempty"`
}

// Vec3 is a 3D vector in millimetres or degrees, depending on use.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// IsZero reports whether every component is 0.
func (v Vec3) IsZero() bool { return v == Vec3{} }

func (v Vec3) String() string { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }

// Axis selects a coordinate axis.
type Axis int

const (
	AxisZ Axis = iota // default for round primitives
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}
