package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

var unitCube = core.NewAABB(core.Splat(-0.5), core.Splat(0.5))

// Cube is the unit cube [-0.5, 0.5]³ in local space
type Cube struct {
	Object
}

// NewCube creates a cube placed by transform
func NewCube(transform core.Transform, material core.Material) *Cube {
	c := &Cube{}
	c.Object = newObject(c, transform, material)
	return c
}

func (c *Cube) worldBounds(a core.Affine) core.AABB {
	return a.BoundingBox(unitCube)
}

func (c *Cube) worldArea(a core.Affine) float64 {
	scale := a.ScaleFactors()
	return 2 * (scale.X*scale.Y + scale.Y*scale.Z + scale.Z*scale.X)
}

// Intersect returns the nearest face hit with t in [tMin, tMax]
func (c *Cube) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	var buf [2]localHit
	h, ok := nearest(c.hits(ray, buf[:0]), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	return c.toWorld(ray, h, c), true
}

// IntersectAll appends the entry and exit crossings that fall in [tMin, tMax]
func (c *Cube) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	var buf [2]localHit
	return c.appendWorld(ray, c.hits(ray, buf[:0]), tMin, tMax, c, hits)
}

func (c *Cube) hits(world core.Ray, out []localHit) []localHit {
	ray := c.affine.LocalRay(world)
	tNear, tFar, ok := unitCube.Intersect(ray, math.Inf(-1), math.Inf(1))
	if !ok || math.IsInf(tNear, 0) || math.IsInf(tFar, 0) {
		return out
	}
	return append(out, cubeSample(ray.At(tNear), tNear), cubeSample(ray.At(tFar), tFar))
}

// cubeSample builds the sample for a point on the cube surface. The face is
// the one whose plane is closest to the point.
func cubeSample(p core.Vec3, t float64) localHit {
	axis := 0
	best := math.Inf(1)
	for i := 0; i < 3; i++ {
		if gap := math.Abs(0.5 - math.Abs(p.Axis(i))); gap < best {
			best = gap
			axis = i
		}
	}

	sign := 1.0
	if p.Axis(axis) < 0 {
		sign = -1
	}
	u, v := (axis+1)%3, (axis+2)%3

	return localHit{
		t:        t,
		position: p.WithAxis(axis, 0.5*sign),
		normal:   core.Vec3{}.WithAxis(axis, sign),
		tangent:  core.Vec3{}.WithAxis(u, 1),
		uv:       core.NewVec2(p.Axis(u)+0.5, p.Axis(v)+0.5),
	}
}
