package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func assertVec(t *testing.T, what string, want, got core.Vec3) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", what, diff)
	}
}

func assertFloat(t *testing.T, what string, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-6 {
		t.Errorf("Expected %s=%f, got %f", what, want, got)
	}
}

func scaled(position core.Vec3, scale float64) core.Transform {
	transform := core.Translation(position)
	transform.Scale = core.Splat(scale)
	return transform
}

// bruteForce finds the nearest hit by testing every geometry
func bruteForce(geometries []core.Geometry, ray core.Ray, mask core.RayMask, tMin, tMax float64) (core.Intersection, bool) {
	var best core.Intersection
	found := false
	for _, g := range geometries {
		if !g.RayMask().Has(mask) {
			continue
		}
		if hit, ok := g.Intersect(ray, tMin, tMax); ok {
			best, found = hit, true
			tMax = hit.T
		}
	}
	return best, found
}
