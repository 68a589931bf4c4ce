package csg

// Edge is a transient pair of vertex references used for colinearity,
// length and containment queries. It is never stored as mesh topology.
type Edge struct {
	P1, P2 *Vertex
}

// Length returns the distance between the endpoints.
func (e Edge) Length() float64 {
	return distance(e.P1.Pos, e.P2.Pos)
}

// Direction returns the unnormalized vector from P1 to P2.
func (e Edge) Direction() Vector3d {
	return e.P2.Pos.Sub(e.P1.Pos)
}

// lineDistance is the distance from p to the infinite line through the edge.
func (e Edge) lineDistance(p Vector3d) float64 {
	d := e.Direction()
	l := d.Length()
	if l == 0 {
		return distance(e.P1.Pos, p)
	}
	return d.Cross(p.Sub(e.P1.Pos)).Length() / l
}

// param returns the projection parameter of p along the edge, 0 at P1 and 1 at P2.
func (e Edge) param(p Vector3d) float64 {
	d := e.Direction()
	l2 := d.Dot(d)
	if l2 == 0 {
		return 0
	}
	return p.Sub(e.P1.Pos).Dot(d) / l2
}

// Colinear reports whether p lies on the infinite line through the edge
// within eps.
func (e Edge) Colinear(p Vector3d, eps float64) bool {
	return e.lineDistance(p) <= eps
}

// HasEndpoint reports whether p coincides with either endpoint within eps.
func (e Edge) HasEndpoint(p Vector3d, eps float64) bool {
	return NearlyEqual(e.P1.Pos, p, eps) || NearlyEqual(e.P2.Pos, p, eps)
}

// Contains reports whether p lies strictly between the endpoints of the
// segment, within eps of the segment line.
func (e Edge) Contains(p Vector3d, eps float64) bool {
	if e.HasEndpoint(p, eps) {
		return false
	}
	t := e.param(p)
	if t <= 0 || t >= 1 {
		return false
	}
	closest := Lerp(e.P1.Pos, e.P2.Pos, t)
	return distance(closest, p) <= eps
}

// Equal reports whether both edges join the same two points, in either
// direction.
func (e Edge) Equal(o Edge, eps float64) bool {
	a1, a2 := e.P1.Pos, e.P2.Pos
	b1, b2 := o.P1.Pos, o.P2.Pos
	return (NearlyEqual(a1, b1, eps) && NearlyEqual(a2, b2, eps)) ||
		(NearlyEqual(a1, b2, eps) && NearlyEqual(a2, b1, eps))
}
