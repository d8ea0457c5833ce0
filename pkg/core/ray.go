package core

// Epsilon is the tolerance shared by every intersection kernel. It rejects
// near-parallel and near-tangent configurations and is the minimum ray
// parameter accepted for secondary rays so that a ray does not re-hit the
// surface it was spawned from.
const Epsilon = 1e-5

// Ray represents a ray with an origin and direction.
//
// InvDirection and Sign are derived from Direction at construction time and
// are used by the slab test to pick near/far box faces without branching on
// the direction sign.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3
	Sign         [3]int
}

// NewRay creates a new ray with a normalized direction
func NewRay(origin, direction Vec3) Ray {
	return newRay(origin, direction.Normalize())
}

// NewRayThrough creates a ray starting at from and passing through to
func NewRayThrough(from, to Vec3) Ray {
	return NewRay(from, to.Subtract(from))
}

// newRay builds a ray without normalizing the direction. Object-space rays use
// it so that the ray parameter matches the world-space parameter.
func newRay(origin, direction Vec3) Ray {
	inv := Vec3{1 / direction.X, 1 / direction.Y, 1 / direction.Z}
	r := Ray{
		Origin:       origin,
		Direction:    direction,
		InvDirection: inv,
	}
	if inv.X < 0 {
		r.Sign[0] = 1
	}
	if inv.Y < 0 {
		r.Sign[1] = 1
	}
	if inv.Z < 0 {
		r.Sign[2] = 1
	}
	return r
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
