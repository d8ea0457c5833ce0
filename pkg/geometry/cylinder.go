package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Cylinder is a closed cylinder of radius 1 spanning y in [-1, 1] in local
// space, with flat caps
type Cylinder struct {
	Object
}

// NewCylinder creates a cylinder placed by transform
func NewCylinder(transform core.Transform, material core.Material) *Cylinder {
	c := &Cylinder{}
	c.Object = newObject(c, transform, material)
	return c
}

func (c *Cylinder) worldBounds(a core.Affine) core.AABB {
	return a.BoundingBox(core.NewAABB(core.Splat(-1), core.Splat(1)))
}

func (c *Cylinder) worldArea(a core.Affine) float64 {
	scale := a.ScaleFactors()
	radius := (scale.X + scale.Z) / 2
	return 2*math.Pi*radius*2*scale.Y + 2*math.Pi*scale.X*scale.Z
}

// Intersect returns the nearest side or cap hit with t in [tMin, tMax]
func (c *Cylinder) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	var buf [4]localHit
	h, ok := nearest(c.hits(ray, buf[:0]), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	return c.toWorld(ray, h, c), true
}

// IntersectAll appends the crossings that fall in [tMin, tMax]
func (c *Cylinder) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	var buf [4]localHit
	return c.appendWorld(ray, c.hits(ray, buf[:0]), tMin, tMax, c, hits)
}

func (c *Cylinder) hits(world core.Ray, out []localHit) []localHit {
	ray := c.affine.LocalRay(world)

	out = appendTubeHits(ray, 1, out)
	for _, y := range [2]float64{-1, 1} {
		if h, ok := capHit(ray, y); ok {
			out = append(out, h)
		}
	}
	sortHits(out)
	return out
}

// appendTubeHits intersects the infinite unit cylinder around Y and keeps the
// samples with |y| <= halfHeight
func appendTubeHits(ray core.Ray, halfHeight float64, out []localHit) []localHit {
	d, o := ray.Direction, ray.Origin
	a := d.X*d.X + d.Z*d.Z
	if a < core.Epsilon*core.Epsilon {
		// Parallel to the axis: only the caps can be hit
		return out
	}
	halfB := o.X*d.X + o.Z*d.Z
	c := o.X*o.X + o.Z*o.Z - 1

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return out
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		p := ray.At(t)
		if math.Abs(p.Y) > halfHeight {
			continue
		}
		out = append(out, localHit{
			t:        t,
			position: p,
			normal:   core.NewVec3(p.X, 0, p.Z).Normalize(),
			tangent:  core.NewVec3(-p.Z, 0, p.X).Normalize(),
			uv: core.NewVec2(
				(math.Atan2(p.Z, p.X)+math.Pi)/(2*math.Pi),
				(p.Y/halfHeight+1)/2,
			),
		})
	}
	return out
}

// capHit intersects the flat cap at height y
func capHit(ray core.Ray, y float64) (localHit, bool) {
	if math.Abs(ray.Direction.Y) < core.Epsilon {
		return localHit{}, false
	}
	t := (y - ray.Origin.Y) / ray.Direction.Y
	p := ray.At(t)
	if p.X*p.X+p.Z*p.Z > 1 {
		return localHit{}, false
	}
	p.Y = y
	return localHit{
		t:        t,
		position: p,
		normal:   core.NewVec3(0, math.Copysign(1, y), 0),
		tangent:  core.NewVec3(1, 0, 0),
		uv:       core.NewVec2((p.X+1)/2, (p.Z+1)/2),
	}, true
}
