package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Plane is the infinite plane y = 0 in local space with normal +Y. As a solid it
// is the half-space below the plane.
type Plane struct {
	Object
}

// NewPlane creates an infinite plane placed by transform
func NewPlane(transform core.Transform, material core.Material) *Plane {
	p := &Plane{}
	p.Object = newObject(p, transform, material)
	return p
}

func (p *Plane) worldBounds(a core.Affine) core.AABB {
	return a.BoundingBox(core.InfiniteAABB())
}

func (p *Plane) worldArea(core.Affine) float64 {
	return math.Inf(1)
}

// Intersect returns the plane hit if its t lies in [tMin, tMax]
func (p *Plane) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	h, ok := planeHit(p.affine.LocalRay(ray), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	h.uv = core.NewVec2(h.position.X-math.Floor(h.position.X), h.position.Z-math.Floor(h.position.Z))
	return p.toWorld(ray, h, p), true
}

// IntersectAll appends the single plane crossing when it lies in [tMin, tMax]
func (p *Plane) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	if hit, ok := p.Intersect(ray, tMin, tMax); ok {
		hits = append(hits, hit)
	}
	return hits
}

// planeHit solves dot(N, O + tD) = 0 for the local unit-Y plane
func planeHit(ray core.Ray, tMin, tMax float64) (localHit, bool) {
	denom := ray.Direction.Y
	if math.Abs(denom) < core.Epsilon {
		return localHit{}, false
	}

	t := -ray.Origin.Y / denom
	if t < tMin || t > tMax {
		return localHit{}, false
	}

	position := ray.At(t)
	position.Y = 0
	return localHit{
		t:        t,
		position: position,
		normal:   core.NewVec3(0, 1, 0),
		tangent:  core.NewVec3(1, 0, 0),
	}, true
}
