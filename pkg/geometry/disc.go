package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Disc is a unit-radius disc in the local XZ plane facing +Y
type Disc struct {
	Object
}

// NewDisc creates a disc placed by transform
func NewDisc(transform core.Transform, material core.Material) *Disc {
	d := &Disc{}
	d.Object = newObject(d, transform, material)
	return d
}

func (d *Disc) worldBounds(a core.Affine) core.AABB {
	return a.BoundingBox(core.NewAABB(core.NewVec3(-1, 0, -1), core.NewVec3(1, 0, 1)))
}

func (d *Disc) worldArea(a core.Affine) float64 {
	scale := a.ScaleFactors()
	return math.Pi * scale.X * scale.Z
}

// Intersect returns the disc hit if its t lies in [tMin, tMax]
func (d *Disc) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	h, ok := planeHit(d.affine.LocalRay(ray), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}

	r2 := h.position.X*h.position.X + h.position.Z*h.position.Z
	if r2 > 1 {
		return core.Intersection{}, false
	}
	h.uv = core.NewVec2(
		(math.Atan2(h.position.Z, h.position.X)+math.Pi)/(2*math.Pi),
		math.Sqrt(r2),
	)
	return d.toWorld(ray, h, d), true
}

// IntersectAll appends the single disc crossing when it lies in [tMin, tMax]
func (d *Disc) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	if hit, ok := d.Intersect(ray, tMin, tMax); ok {
		hits = append(hits, hit)
	}
	return hits
}
