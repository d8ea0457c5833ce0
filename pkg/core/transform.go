package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform describes how an object is placed in the world: scaled first,
// then rotated, then translated.
type Transform struct {
	Position Vec3
	Rotation mgl64.Quat
	Scale    Vec3
}

// IdentityTransform returns a transform that leaves objects unchanged
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent(), Scale: Splat(1)}
}

// Translation returns a transform that only moves objects to position
func Translation(position Vec3) Transform {
	t := IdentityTransform()
	t.Position = position
	return t
}

// RotationXYZ returns a rotation from Euler angles in radians, applied X then Y then Z
func RotationXYZ(x, y, z float64) mgl64.Quat {
	return mgl64.AnglesToQuat(z, y, x, mgl64.ZYX)
}

// RotationBetween returns the rotation that maps direction from onto direction to
func RotationBetween(from, to Vec3) mgl64.Quat {
	return mgl64.QuatBetweenVectors(toMgl(from.Normalize()), toMgl(to.Normalize()))
}

// Matrix composes the local-to-world matrix
func (t Transform) Matrix() mgl64.Mat4 {
	translate := mgl64.Translate3D(t.Position.X, t.Position.Y, t.Position.Z)
	scale := mgl64.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z)
	return translate.Mul4(t.Rotation.Normalize().Mat4()).Mul4(scale)
}

// Affine caches the matrices derived from a Transform: local-to-world,
// world-to-local and the inverse-transpose used for normals.
type Affine struct {
	toWorld mgl64.Mat4
	toLocal mgl64.Mat4
	normal  mgl64.Mat3
}

// NewAffine derives the cached matrices for t
func NewAffine(t Transform) Affine {
	toWorld := t.Matrix()
	toLocal := toWorld.Inv()
	return Affine{
		toWorld: toWorld,
		toLocal: toLocal,
		normal:  toLocal.Mat3().Transpose(),
	}
}

// Point transforms a local position to world space
func (a Affine) Point(p Vec3) Vec3 {
	return fromMgl(a.toWorld.Mul4x1(toMgl(p).Vec4(1)).Vec3())
}

// Direction transforms a local direction to world space without normalizing
func (a Affine) Direction(d Vec3) Vec3 {
	return fromMgl(a.toWorld.Mat3().Mul3x1(toMgl(d)))
}

// Normal transforms a local normal to world space using the inverse
// transpose, which keeps it perpendicular under non-uniform scale
func (a Affine) Normal(n Vec3) Vec3 {
	return fromMgl(a.normal.Mul3x1(toMgl(n))).Normalize()
}

// LocalPoint transforms a world position into local space
func (a Affine) LocalPoint(p Vec3) Vec3 {
	return fromMgl(a.toLocal.Mul4x1(toMgl(p).Vec4(1)).Vec3())
}

// LocalRay transforms a world ray into local space. The local direction is
// left unnormalized so the ray parameter t is the same in both spaces.
func (a Affine) LocalRay(r Ray) Ray {
	origin := a.LocalPoint(r.Origin)
	direction := fromMgl(a.toLocal.Mat3().Mul3x1(toMgl(r.Direction)))
	return newRay(origin, direction)
}

// LocalPlane maps a world-space plane into local space. The local normal is
// not normalized; only the sign of the signed distance is meaningful.
func (a Affine) LocalPlane(p Plane) Plane {
	linear := a.toWorld.Mat3()
	translation := fromMgl(a.toWorld.Col(3).Vec3())
	return Plane{
		Normal: fromMgl(linear.Transpose().Mul3x1(toMgl(p.Normal))),
		Offset: p.Offset - p.Normal.Dot(translation),
	}
}

// BoundingBox transforms a local box to a world-space box enclosing it
func (a Affine) BoundingBox(local AABB) AABB {
	if local.IsInfinite() {
		return InfiniteAABB()
	}
	corners := local.Corners()
	for i := range corners {
		corners[i] = a.Point(corners[i])
	}
	return NewAABBFromPoints(corners[:]...)
}

// ScaleFactors returns the length of each transformed local axis
func (a Affine) ScaleFactors() Vec3 {
	return Vec3{
		X: a.Direction(Vec3{X: 1}).Length(),
		Y: a.Direction(Vec3{Y: 1}).Length(),
		Z: a.Direction(Vec3{Z: 1}).Length(),
	}
}

// Slerp rotates direction from towards direction to by fraction amount of the
// angle between them
func Slerp(from, to Vec3, amount float64) Vec3 {
	from, to = from.Normalize(), to.Normalize()
	if amount <= 0 || from.Dot(to) > 1-Epsilon {
		return from
	}
	if from.Dot(to) < -1+Epsilon {
		// Antiparallel: no unique rotation, fall back to a linear blend
		return from.Lerp(to, amount).Normalize()
	}
	q := mgl64.QuatSlerp(mgl64.QuatIdent(), mgl64.QuatBetweenVectors(toMgl(from), toMgl(to)), math.Min(amount, 1))
	return fromMgl(q.Rotate(toMgl(from))).Normalize()
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
