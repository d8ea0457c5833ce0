package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func randomBox(random *rand.Rand) AABB {
	a := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
	b := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
	return NewAABBFromPoints(a, b)
}

func TestAABB_ContainsCornersAndUnion(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := randomBox(random)
		b := randomBox(random)

		if !a.Contains(a.Min) || !a.Contains(a.Max) {
			t.Fatalf("Box %v does not contain its own corners", a)
		}

		u := a.Union(b)
		if !u.ContainsBox(a) || !u.ContainsBox(b) {
			t.Fatalf("Union %v does not contain %v and %v", u, a, b)
		}
	}
}

func TestAABB_Intersect(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       Ray
		expectHit bool
		tNear     float64
		tFar      float64
	}{
		{"From outside towards center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true, 4, 6},
		{"Negative direction", NewRay(NewVec3(5, 0, 0), NewVec3(-1, 0, 0)), true, 4, 6},
		{"From inside", NewRay(NewVec3(0, 0, 0), NewVec3(0, 1, 0)), true, -1, 1},
		{"Miss to the side", NewRay(NewVec3(3, 0, -5), NewVec3(0, 0, 1)), false, 0, 0},
		{"Pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false, 0, 0},
		{"Parallel outside slab", NewRay(NewVec3(0, 2, -5), NewVec3(0, 0, 1)), false, 0, 0},
		{"Parallel on slab face", NewRay(NewVec3(0, 1, -5), NewVec3(0, 0, 1)), true, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tNear, tFar, ok := box.Intersect(tt.ray, 0, math.Inf(1))
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(tNear-tt.tNear) > 1e-9 || math.Abs(tFar-tt.tFar) > 1e-9 {
				t.Errorf("Expected [%f, %f], got [%f, %f]", tt.tNear, tt.tFar, tNear, tFar)
			}
		})
	}
}

func TestAABB_IntersectFromOutsideIsAhead(t *testing.T) {
	random := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		box := randomBox(random).Expand(0.1)
		origin := box.Center().Add(SampleOnUnitSphere(NewVec2(random.Float64(), random.Float64())).Multiply(50))
		ray := NewRayThrough(origin, box.Center())

		tNear, tFar, ok := box.Intersect(ray, 0, math.Inf(1))
		if !ok {
			t.Fatalf("Ray aimed at center of %v missed", box)
		}
		if tNear < 0 || tNear > tFar {
			t.Fatalf("Expected 0 <= tNear <= tFar, got [%f, %f]", tNear, tFar)
		}
	}
}

func TestAABB_IntersectDeltaWindow(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))

	if _, _, ok := box.Intersect(ray, 0, 3); ok {
		t.Error("Expected miss when the box starts beyond maxDelta")
	}
	if _, _, ok := box.Intersect(ray, 7, 10); ok {
		t.Error("Expected miss when the box ends before minDelta")
	}
	if _, _, ok := box.Intersect(ray, 5, 10); !ok {
		t.Error("Expected hit when the window overlaps the box")
	}
}

func TestAABB_InfiniteBox(t *testing.T) {
	box := InfiniteAABB()
	if !box.IsInfinite() {
		t.Fatal("Expected infinite box")
	}
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 1, 0))
	if !box.Hit(ray, Epsilon, math.Inf(1)) {
		t.Error("Every ray should hit the infinite box")
	}
	if !math.IsInf(box.SurfaceArea(), 1) {
		t.Errorf("Expected infinite surface area, got %f", box.SurfaceArea())
	}
	if len(box.Planes()) != 0 {
		t.Errorf("Infinite box has no finite planes, got %d", len(box.Planes()))
	}
}

func TestAABB_ClipLine(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	a, b, ok := box.ClipLine(NewVec3(-1, 0.5, 0.5), NewVec3(2, 0.5, 0.5))
	if !ok {
		t.Fatal("Expected segment to cross the box")
	}
	if diff := cmp.Diff(NewVec3(0, 0.5, 0.5), a, approx); diff != "" {
		t.Errorf("Start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NewVec3(1, 0.5, 0.5), b, approx); diff != "" {
		t.Errorf("End mismatch (-want +got):\n%s", diff)
	}

	// Segment ending before the box
	a, b, ok = box.ClipLine(NewVec3(-3, 0.5, 0.5), NewVec3(-1, 0.5, 0.5))
	if ok || a != (Vec3{}) || b != (Vec3{}) {
		t.Errorf("Expected no overlap, got %v %v %t", a, b, ok)
	}

	// Segment fully inside is returned unchanged
	a, b, ok = box.ClipLine(NewVec3(0.2, 0.2, 0.2), NewVec3(0.8, 0.8, 0.8))
	if !ok {
		t.Fatal("Expected inner segment to be kept")
	}
	if diff := cmp.Diff(NewVec3(0.8, 0.8, 0.8), b, approx); diff != "" {
		t.Errorf("End mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NewVec3(0.2, 0.2, 0.2), a, approx); diff != "" {
		t.Errorf("Start mismatch (-want +got):\n%s", diff)
	}
}

func TestAABB_Difference(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(4, 4, 4))

	// B covers the upper half of A completely along X and Z: Y gets trimmed
	b := NewAABB(NewVec3(-1, 2, -1), NewVec3(5, 6, 5))
	want := NewAABB(NewVec3(0, 0, 0), NewVec3(4, 2, 4))
	if diff := cmp.Diff(want, a.Difference(b), approx); diff != "" {
		t.Errorf("Trim mismatch (-want +got):\n%s", diff)
	}

	// B does not span A on the other axes: no trim
	c := NewAABB(NewVec3(1, 2, 1), NewVec3(3, 6, 3))
	if diff := cmp.Diff(a, a.Difference(c), approx); diff != "" {
		t.Errorf("Expected untouched box (-want +got):\n%s", diff)
	}
}

func TestAABB_IntersectionAndSplit(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 2, 2))
	b := NewAABB(NewVec3(1, 1, 1), NewVec3(3, 3, 3))

	if diff := cmp.Diff(NewAABB(NewVec3(1, 1, 1), NewVec3(2, 2, 2)), a.Intersection(b), approx); diff != "" {
		t.Errorf("Intersection mismatch (-want +got):\n%s", diff)
	}

	left, right := a.Split(0, 0.5)
	if left.Max.X != 0.5 || right.Min.X != 0.5 {
		t.Errorf("Split at 0.5 produced %v and %v", left, right)
	}
	if diff := cmp.Diff(a, left.Union(right), approx); diff != "" {
		t.Errorf("Split halves must cover the box (-want +got):\n%s", diff)
	}
}

func TestAABB_Planes(t *testing.T) {
	box := NewAABB(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))
	planes := box.Planes()
	if len(planes) != 6 {
		t.Fatalf("Expected 6 planes, got %d", len(planes))
	}
	for _, p := range planes {
		if !p.InFront(box.Center()) {
			t.Errorf("Center should be in front of plane %v", p)
		}
		if p.InFront(box.Center().Subtract(p.Normal.Multiply(100))) {
			t.Errorf("Far point should be behind plane %v", p)
		}
	}
}

func TestPlane_Distance(t *testing.T) {
	plane := Plane{Normal: NewVec3(0, 1, 0), Offset: 0}
	if d := plane.Distance(NewVec3(0, 1, 0)); d != 1 {
		t.Errorf("Expected distance 1, got %f", d)
	}
	if d := plane.Distance(NewVec3(0, 0, 0)); d != 0 {
		t.Errorf("Expected distance 0, got %f", d)
	}
}
