package csg

import "math"

// boxFaces lists the corner indices of each box face, wound outward.
// Corner i sits at center + size/2 * (±1, ±1, ±1) with bit 0 selecting X,
// bit 1 Y and bit 2 Z.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// Box returns an axis-aligned box centered at center.
func Box(center, size Vector3d) *CSG {
	half := size.MulScalar(0.5)
	meta := NewMetadata()
	polygons := make([]*Polygon, 0, len(boxFaces))
	for _, face := range boxFaces {
		points := make([]Vector3d, 4)
		for k, i := range face {
			points[k] = Vec(
				center.X+half.X*float64(2*(i&1)-1),
				center.Y+half.Y*float64(2*((i>>1)&1)-1),
				center.Z+half.Z*float64(2*((i>>2)&1)-1),
			)
		}
		if p, err := PolygonFromPointsMeta(points, meta); err == nil {
			polygons = append(polygons, p)
		}
	}
	return FromPolygons(polygons)
}

// Sphere returns a UV sphere. slices divide the equator, stacks divide a
// meridian; the poles are closed with triangles.
func Sphere(center Vector3d, radius float64, slices, stacks int) *CSG {
	slices = max(slices, 3)
	stacks = max(stacks, 2)
	meta := NewMetadata()
	at := func(theta, phi float64) Vector3d {
		theta *= 2 * math.Pi
		phi *= math.Pi
		dir := Vec(math.Cos(theta)*math.Sin(phi), math.Cos(phi), math.Sin(theta)*math.Sin(phi))
		return center.Add(dir.MulScalar(radius))
	}
	var polygons []*Polygon
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			t0, t1 := float64(i)/float64(slices), float64(i+1)/float64(slices)
			p0, p1 := float64(j)/float64(stacks), float64(j+1)/float64(stacks)
			points := []Vector3d{at(t0, p0)}
			if j > 0 {
				points = append(points, at(t1, p0))
			}
			if j < stacks-1 {
				points = append(points, at(t1, p1))
			}
			points = append(points, at(t0, p1))
			if p, err := PolygonFromPointsMeta(points, meta); err == nil {
				polygons = append(polygons, p)
			}
		}
	}
	return FromPolygons(polygons)
}

// Cylinder returns a cylinder or cone from start to end. r1 is the radius
// at start and r2 at end; a zero radius makes a point.
func Cylinder(start, end Vector3d, r1, r2 float64, slices int) *CSG {
	slices = max(slices, 3)
	meta := NewMetadata()
	ray := end.Sub(start)
	axisZ := ray.Normalize()
	seed := XOne
	if math.Abs(axisZ.Y) <= 0.5 {
		seed = YOne
	}
	axisX := seed.Cross(axisZ).Normalize()
	axisY := axisX.Cross(axisZ).Normalize()
	point := func(stack, slice float64) Vector3d {
		angle := slice * 2 * math.Pi
		out := axisX.MulScalar(math.Cos(angle)).Add(axisY.MulScalar(math.Sin(angle)))
		r := r1 + (r2-r1)*stack
		return start.Add(ray.MulScalar(stack)).Add(out.MulScalar(r))
	}
	var polygons []*Polygon
	add := func(points ...Vector3d) {
		if p, err := PolygonFromPointsMeta(points, meta); err == nil {
			polygons = append(polygons, p)
		}
	}
	for i := 0; i < slices; i++ {
		t0, t1 := float64(i)/float64(slices), float64(i+1)/float64(slices)
		if r1 > 0 {
			add(start, point(0, t0), point(0, t1))
		}
		switch {
		case r1 > 0 && r2 > 0:
			add(point(0, t1), point(0, t0), point(1, t0), point(1, t1))
		case r1 > 0:
			add(point(0, t1), point(0, t0), end)
		case r2 > 0:
			add(start, point(1, t0), point(1, t1))
		}
		if r2 > 0 {
			add(end, point(1, t1), point(1, t0))
		}
	}
	return FromPolygons(polygons)
}
