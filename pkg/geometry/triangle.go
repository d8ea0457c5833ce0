package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Triangle is a single face placed by a transform
type Triangle struct {
	Object
	Face Face
}

// NewTriangle creates a triangle from face, placed by transform
func NewTriangle(transform core.Transform, face Face, material core.Material) *Triangle {
	t := &Triangle{Face: face}
	t.Object = newObject(t, transform, material)
	return t
}

func (t *Triangle) worldBounds(a core.Affine) core.AABB {
	return faceBounds(a, []Face{t.Face})
}

func (t *Triangle) worldArea(a core.Affine) float64 {
	return faceArea(a, &t.Face)
}

// Intersect returns the triangle hit if its t lies in [tMin, tMax]
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	h, ok := intersectFace(&t.Face, t.affine.LocalRay(ray), tMin, tMax)
	if !ok {
		return core.Intersection{}, false
	}
	return t.toWorld(ray, h, t), true
}

// IntersectAll appends the single triangle crossing when it lies in [tMin, tMax]
func (t *Triangle) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	if hit, ok := t.Intersect(ray, tMin, tMax); ok {
		hits = append(hits, hit)
	}
	return hits
}

// intersectFace runs the Möller-Trumbore test against a local-space face
func intersectFace(f *Face, ray core.Ray, tMin, tMax float64) (localHit, bool) {
	edge1 := f[1].Position.Subtract(f[0].Position)
	edge2 := f[2].Position.Subtract(f[0].Position)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Parallel to the triangle plane, measured as the sine of the angle so the
	// test does not depend on the size of the triangle
	scale := edge1.Length() * edge2.Length() * ray.Direction.Length()
	if math.Abs(det) < core.Epsilon*scale || det == 0 {
		return localHit{}, false
	}

	inv := 1.0 / det
	s := ray.Origin.Subtract(f[0].Position)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return localHit{}, false
	}

	q := s.Cross(edge1)
	v := inv * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return localHit{}, false
	}

	t := inv * edge2.Dot(q)
	if t < tMin || t > tMax {
		return localHit{}, false
	}

	w := 1 - u - v
	blend := func(a, b, c core.Vec3) core.Vec3 {
		return a.Multiply(w).Add(b.Multiply(u)).Add(c.Multiply(v))
	}

	normal := blend(f[0].Normal, f[1].Normal, f[2].Normal)
	if normal.LengthSquared() < core.Epsilon*core.Epsilon {
		normal = edge1.Cross(edge2)
	}
	tangent := blend(f[0].Tangent, f[1].Tangent, f[2].Tangent)
	if tangent.LengthSquared() < core.Epsilon*core.Epsilon {
		tangent = edge1
	}

	return localHit{
		t:        t,
		position: blend(f[0].Position, f[1].Position, f[2].Position),
		normal:   normal.Normalize(),
		tangent:  tangent.Normalize(),
		uv: core.NewVec2(
			w*f[0].UV.X+u*f[1].UV.X+v*f[2].UV.X,
			w*f[0].UV.Y+u*f[1].UV.Y+v*f[2].UV.Y,
		),
	}, true
}

// faceBounds bounds the world-space vertices of faces
func faceBounds(a core.Affine, faces []Face) core.AABB {
	box := core.EmptyAABB()
	for i := range faces {
		for _, v := range faces[i] {
			p := a.Point(v.Position)
			box.Min = box.Min.Min(p)
			box.Max = box.Max.Max(p)
		}
	}
	return box
}

// faceArea returns the world-space area of f
func faceArea(a core.Affine, f *Face) float64 {
	p0 := a.Point(f[0].Position)
	return p0.Subtract(a.Point(f[1].Position)).Cross(p0.Subtract(a.Point(f[2].Position))).Length() / 2
}
