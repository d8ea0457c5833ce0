package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Quad is the square |x| <= 1, |z| <= 1 in the local XZ plane facing +Y
type Quad struct {
	Object
}

// NewQuad creates a quad placed by transform
func NewQuad(transform core.Transform, material core.Material) *Quad {
	q := &Quad{}
	q.Object = newObject(q, transform, material)
	return q
}

func (q *Quad) worldBounds(a core.Affine) core.AABB {
	return a.BoundingBox(core.NewAABB(core.NewVec3(-1, 0, -1), core.NewVec3(1, 0, 1)))
}

func (q *Quad) worldArea(a core.Affine) float64 {
	scale := a.ScaleFactors()
	return 4 * scale.X * scale.Z
}

// Intersect returns the quad hit if its t lies in [tMin, tMax]
func (q *Quad) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	h, ok := planeHit(q.affine.LocalRay(ray), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	if math.Abs(h.position.X) > 1 || math.Abs(h.position.Z) > 1 {
		return core.Intersection{}, false
	}
	h.uv = core.NewVec2((h.position.X+1)/2, (h.position.Z+1)/2)
	return q.toWorld(ray, h, q), true
}

// IntersectAll appends the single quad crossing when it lies in [tMin, tMax]
func (q *Quad) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	if hit, ok := q.Intersect(ray, tMin, tMax); ok {
		hits = append(hits, hit)
	}
	return hits
}
