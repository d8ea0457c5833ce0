package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Sphere is a sphere of the given radius centered on its local origin. A
// negative radius turns the sphere inside out: normals point inwards, which is
// how hollow refractive shells and enclosing sky domes are built.
type Sphere struct {
	Object
	Radius float64
}

// NewSphere creates a sphere placed by transform
func NewSphere(transform core.Transform, radius float64, material core.Material) *Sphere {
	s := &Sphere{Radius: radius}
	s.Object = newObject(s, transform, material)
	return s
}

func (s *Sphere) worldBounds(a core.Affine) core.AABB {
	r := math.Abs(s.Radius)
	return a.BoundingBox(core.NewAABB(core.Splat(-r), core.Splat(r)))
}

func (s *Sphere) worldArea(a core.Affine) float64 {
	scale := a.ScaleFactors()
	// Exact for uniform scale, an average for ellipsoids
	r2 := s.Radius * s.Radius
	return 4 * math.Pi * r2 * (scale.X*scale.Y + scale.Y*scale.Z + scale.Z*scale.X) / 3
}

// Intersect returns the nearest hit with t in [tMin, tMax]
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	var buf [2]localHit
	h, ok := nearest(s.hits(ray, buf[:0]), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	return s.toWorld(ray, h, s), true
}

// IntersectAll appends both surface crossings that fall in [tMin, tMax]
func (s *Sphere) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	var buf [2]localHit
	return s.appendWorld(ray, s.hits(ray, buf[:0]), tMin, tMax, s, hits)
}

func (s *Sphere) hits(world core.Ray, out []localHit) []localHit {
	ray := s.affine.LocalRay(world)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := ray.Origin.Dot(ray.Direction)
	c := ray.Origin.Dot(ray.Origin) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a < core.Epsilon*core.Epsilon {
		return out
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		out = append(out, s.sample(ray.At(t), t))
	}
	return out
}

func (s *Sphere) sample(p core.Vec3, t float64) localHit {
	// Dividing by the signed radius flips the normal of inside-out spheres
	normal := p.Multiply(1 / s.Radius)
	outward := normal
	if s.Radius < 0 {
		outward = outward.Negate()
	}

	tangent := core.NewVec3(-p.Z, 0, p.X)
	if tangent.LengthSquared() < core.Epsilon*core.Epsilon {
		// At the poles any horizontal direction will do
		tangent, _ = core.OrthonormalBasis(normal)
	}

	return localHit{
		t:        t,
		position: p,
		normal:   normal,
		tangent:  tangent.Normalize(),
		uv: core.NewVec2(
			(math.Atan2(-outward.Z, outward.X)+math.Pi)/(2*math.Pi),
			math.Acos(math.Max(-1, math.Min(1, -outward.Y)))/math.Pi,
		),
	}
}
