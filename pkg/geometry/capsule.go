package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Capsule is a radius 1 cylinder spanning y in [-HalfHeight, HalfHeight] in
// local space, closed by hemispheres centered on the ends of its axis
type Capsule struct {
	Object
	HalfHeight float64
}

// NewCapsule creates a capsule placed by transform
func NewCapsule(transform core.Transform, halfHeight float64, material core.Material) *Capsule {
	c := &Capsule{HalfHeight: math.Max(0, halfHeight)}
	c.Object = newObject(c, transform, material)
	return c
}

func (c *Capsule) worldBounds(a core.Affine) core.AABB {
	return a.BoundingBox(core.NewAABB(
		core.NewVec3(-1, -c.HalfHeight-1, -1),
		core.NewVec3(1, c.HalfHeight+1, 1),
	))
}

func (c *Capsule) worldArea(a core.Affine) float64 {
	scale := a.ScaleFactors()
	radius := (scale.X + scale.Z) / 2
	sphere := 4 * math.Pi * (scale.X*scale.Y + scale.Y*scale.Z + scale.Z*scale.X) / 3
	return 2*math.Pi*radius*2*c.HalfHeight*scale.Y + sphere
}

// Intersect returns the nearest hit with t in [tMin, tMax]
func (c *Capsule) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	var buf [6]localHit
	h, ok := nearest(c.hits(ray, buf[:0]), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	return c.toWorld(ray, h, c), true
}

// IntersectAll appends the crossings that fall in [tMin, tMax]
func (c *Capsule) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	var buf [6]localHit
	return c.appendWorld(ray, c.hits(ray, buf[:0]), tMin, tMax, c, hits)
}

func (c *Capsule) hits(world core.Ray, out []localHit) []localHit {
	ray := c.affine.LocalRay(world)

	out = appendTubeHits(ray, c.HalfHeight, out)
	out = c.appendEndHits(ray, false, out)
	out = c.appendEndHits(ray, true, out)
	sortHits(out)
	return out
}

// appendEndHits intersects the unit sphere centered on the top or bottom end of
// the axis and keeps the samples beyond the end of the tube
func (c *Capsule) appendEndHits(ray core.Ray, top bool, out []localHit) []localHit {
	end := -c.HalfHeight
	if top {
		end = c.HalfHeight
	}
	center := core.NewVec3(0, end, 0)
	oc := ray.Origin.Subtract(center)

	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	cc := oc.Dot(oc) - 1
	discriminant := halfB*halfB - a*cc
	if discriminant < 0 {
		return out
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		p := ray.At(t)
		// Only the outer hemisphere belongs to the capsule
		if (top && p.Y < end) || (!top && p.Y > end) {
			continue
		}
		normal := p.Subtract(center).Normalize()
		tangent := core.NewVec3(-normal.Z, 0, normal.X)
		if tangent.LengthSquared() < core.Epsilon*core.Epsilon {
			tangent = core.NewVec3(1, 0, 0)
		}
		out = append(out, localHit{
			t:        t,
			position: p,
			normal:   normal,
			tangent:  tangent.Normalize(),
			uv: core.NewVec2(
				(math.Atan2(p.Z, p.X)+math.Pi)/(2*math.Pi),
				(p.Y+c.HalfHeight+1)/(2*c.HalfHeight+2),
			),
		})
	}
	return out
}
