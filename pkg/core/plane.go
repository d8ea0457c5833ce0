package core

// Plane is the half-space boundary dot(Normal, p) = Offset. Points with a
// non-negative signed distance are considered in front of the plane.
type Plane struct {
	Normal Vec3
	Offset float64
}

// NewPlane creates a plane through point with the given normal
func NewPlane(normal, point Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Offset: n.Dot(point)}
}

// Distance returns the signed distance of point from the plane. It is only a
// true distance when Normal has unit length.
func (p Plane) Distance(point Vec3) float64 {
	return p.Normal.Dot(point) - p.Offset
}

// InFront reports whether point lies on the positive side of the plane
func (p Plane) InFront(point Vec3) bool {
	return p.Distance(point) >= 0
}

// SegmentParameter returns the parameter along a-b where the segment crosses
// the plane, given the signed distances of both end points.
func SegmentParameter(distA, distB float64) float64 {
	denom := distA - distB
	if denom == 0 {
		return 0
	}
	return distA / denom
}
