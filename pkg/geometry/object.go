package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Solid is geometry that can report every surface crossing along a ray.
// CSG nodes combine solids by walking those crossings in order.
type Solid interface {
	core.Geometry

	// IntersectAll appends every hit with t in [tMin, tMax] to hits, sorted by t
	IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection
}

// localShape is implemented by primitives that are defined in a unit local
// space and placed in the world by an Object transform
type localShape interface {
	worldBounds(a core.Affine) core.AABB
	worldArea(a core.Affine) float64
}

// localHit is a surface sample in object space
type localHit struct {
	t        float64
	position core.Vec3
	normal   core.Vec3
	tangent  core.Vec3
	uv       core.Vec2
}

// Object carries the placement shared by every primitive: its transform,
// material and ray mask, plus the world bounds and surface area derived from
// the transform.
type Object struct {
	Material core.Material
	Mask     core.RayMask

	shape     localShape
	transform core.Transform
	affine    core.Affine
	bounds    core.AABB
	area      float64
}

func newObject(shape localShape, transform core.Transform, material core.Material) Object {
	o := Object{Material: material, Mask: core.MaskDefault, shape: shape}
	o.SetTransform(transform)
	return o
}

// Transform returns the local-to-world placement
func (o *Object) Transform() core.Transform {
	return o.transform
}

// SetTransform replaces the placement and recomputes the cached matrices,
// bounds and surface area together
func (o *Object) SetTransform(t core.Transform) {
	o.transform = t
	o.affine = core.NewAffine(t)
	o.bounds = o.shape.worldBounds(o.affine)
	o.area = o.shape.worldArea(o.affine)
}

// BoundingBox returns the world-space bounds
func (o *Object) BoundingBox() core.AABB {
	return o.bounds
}

// SurfaceArea returns the world-space surface area
func (o *Object) SurfaceArea() float64 {
	return o.area
}

// RayMask returns the ray types the object takes part in
func (o *Object) RayMask() core.RayMask {
	return o.Mask
}

// toWorld converts a local sample into a world intersection against ray
func (o *Object) toWorld(ray core.Ray, h localHit, g core.Geometry) core.Intersection {
	return core.Intersection{
		Position: o.affine.Point(h.position),
		Normal:   o.affine.Normal(h.normal),
		Tangent:  o.affine.Direction(h.tangent).Normalize(),
		UV:       h.uv,
		T:        h.t,
		Ray:      ray,
		Geometry: g,
		Material: o.Material,
	}
}

// nearest returns the first local hit in [tMin, tMax] from candidates sorted by t
func nearest(candidates []localHit, tMin, tMax float64) (localHit, bool) {
	for _, c := range candidates {
		if c.t >= tMin && c.t <= tMax {
			return c, true
		}
	}
	return localHit{}, false
}

// appendWorld converts the local hits in [tMin, tMax] and appends them to hits
func (o *Object) appendWorld(ray core.Ray, candidates []localHit, tMin, tMax float64, g core.Geometry, hits []core.Intersection) []core.Intersection {
	for _, c := range candidates {
		if c.t >= tMin && c.t <= tMax {
			hits = append(hits, o.toWorld(ray, c, g))
		}
	}
	return hits
}

// sortHits orders a small candidate list by t
func sortHits(candidates []localHit) {
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].t < candidates[j-1].t; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}
