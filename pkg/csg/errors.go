package csg

import "github.com/pkg/errors"

// Construction errors. Callers can test for them with errors.Cause.
var (
	ErrInvalidNormal  = errors.New("csg: normal is not finite or has zero length")
	ErrTooFewVertices = errors.New("csg: polygon needs at least 3 vertices")
	ErrNonFinite      = errors.New("csg: non-finite coordinate")
	ErrEmptyHull      = errors.New("csg: convex hull needs at least 4 non-coplanar points")
)
