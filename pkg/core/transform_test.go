package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/go-gl/mathgl/mgl64"
)

func TestAffine_RoundTrip(t *testing.T) {
	transform := Transform{
		Position: NewVec3(1, -2, 3),
		Rotation: RotationXYZ(0.3, -1.1, 0.7),
		Scale:    NewVec3(2, 0.5, 3),
	}
	affine := NewAffine(transform)

	points := []Vec3{{}, NewVec3(1, 2, 3), NewVec3(-4, 0.5, 8)}
	for _, p := range points {
		got := affine.LocalPoint(affine.Point(p))
		if diff := cmp.Diff(p, got, approx); diff != "" {
			t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestAffine_LocalRayKeepsParameter(t *testing.T) {
	transform := Transform{
		Position: NewVec3(0, 5, 0),
		Rotation: RotationXYZ(0, math.Pi/3, 0),
		Scale:    NewVec3(2, 2, 2),
	}
	affine := NewAffine(transform)
	ray := NewRay(NewVec3(1, 1, -10), NewVec3(0.1, 0.3, 1))

	local := affine.LocalRay(ray)
	for _, tt := range []float64{0, 1, 7.5} {
		want := ray.At(tt)
		got := affine.Point(local.At(tt))
		if diff := cmp.Diff(want, got, cmpApprox(1e-9)); diff != "" {
			t.Errorf("t=%f mismatch (-want +got):\n%s", tt, diff)
		}
	}
}

func TestAffine_NormalStaysPerpendicular(t *testing.T) {
	affine := NewAffine(Transform{Rotation: mgl64.QuatIdent(), Scale: NewVec3(4, 1, 1)})

	// Local plane x + y = 0 with tangent (1, -1, 0)
	normal := affine.Normal(NewVec3(1, 1, 0).Normalize())
	tangent := affine.Direction(NewVec3(1, -1, 0))

	if d := normal.Dot(tangent); math.Abs(d) > 1e-9 {
		t.Errorf("Transformed normal not perpendicular to surface, dot=%f", d)
	}
	if l := normal.Length(); math.Abs(l-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", l)
	}
}

func TestAffine_LocalPlaneKeepsSides(t *testing.T) {
	affine := NewAffine(Transform{
		Position: NewVec3(3, 0, 0),
		Rotation: RotationXYZ(0, 0, math.Pi/4),
		Scale:    NewVec3(1, 2, 1),
	})
	world := NewPlane(NewVec3(1, 0, 0), NewVec3(3.5, 0, 0))
	local := affine.LocalPlane(world)

	for _, p := range []Vec3{NewVec3(0.2, 0.1, 0), NewVec3(-1, 0.3, 2), NewVec3(2, -2, 1)} {
		wantFront := world.InFront(affine.Point(p))
		if got := local.InFront(p); got != wantFront {
			t.Errorf("Point %v: expected in front=%t, got %t", p, wantFront, got)
		}
	}
}

func TestAffine_BoundingBox(t *testing.T) {
	affine := NewAffine(Transform{
		Position: NewVec3(0, 1, 0),
		Rotation: mgl64.QuatIdent(),
		Scale:    NewVec3(2, 2, 2),
	})
	box := affine.BoundingBox(NewAABB(Splat(-1), Splat(1)))
	want := NewAABB(NewVec3(-2, -1, -2), NewVec3(2, 3, 2))
	if diff := cmp.Diff(want, box, approx); diff != "" {
		t.Errorf("Bounds mismatch (-want +got):\n%s", diff)
	}

	if !affine.BoundingBox(InfiniteAABB()).IsInfinite() {
		t.Error("Infinite local bounds must stay infinite")
	}
}

func TestSlerp(t *testing.T) {
	from := NewVec3(1, 0, 0)
	to := NewVec3(0, 1, 0)

	half := Slerp(from, to, 0.5)
	want := NewVec3(1, 1, 0).Normalize()
	if diff := cmp.Diff(want, half, cmpApprox(1e-9)); diff != "" {
		t.Errorf("Halfway mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(from, Slerp(from, to, 0), approx); diff != "" {
		t.Errorf("Zero amount should return from (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(to, Slerp(from, to, 1), cmpApprox(1e-9)); diff != "" {
		t.Errorf("Full amount should return to (-want +got):\n%s", diff)
	}
}

// cmpApprox compares with an absolute margin, for values near zero
func cmpApprox(margin float64) cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		return math.Abs(a-b) <= margin
	})
}
