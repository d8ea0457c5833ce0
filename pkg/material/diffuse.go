package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// HemisphereSampling selects how global illumination rays are distributed
type HemisphereSampling int

const (
	// CosineSampling draws directions proportional to the cosine with the normal
	CosineSampling HemisphereSampling = iota
	// UniformSampling draws directions uniformly over the hemisphere
	UniformSampling
)

// Diffuse is a Lambertian surface lit by global illumination
type Diffuse struct {
	Albedo   ColorSource
	Sampling HemisphereSampling
}

// NewDiffuse creates a diffuse material with a uniform albedo
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: NewSolidColor(albedo)}
}

// NewTexturedDiffuse creates a diffuse material with a varying albedo
func NewTexturedDiffuse(albedo ColorSource) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Sample averages GI bounces over the hemisphere around the surface normal
func (d *Diffuse) Sample(tracer core.Tracer, hit *core.Intersection, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	albedo := d.Albedo.Evaluate(hit.UV, hit.Position)
	normal := d.WorldNormal(hit)
	origin := offsetOrigin(hit.Position, normal)
	weight := throughput.MultiplyVec(albedo)

	samples := max(1, tracer.Settings().GISamples)
	var sum core.Vec3
	for i := 0; i < samples; i++ {
		var direction core.Vec3
		var cosineWeight float64
		switch d.Sampling {
		case UniformSampling:
			direction = core.SampleUniformHemisphere(normal, sampler.Get2D())
			// cosθ/π over a pdf of 1/(2π)
			cosineWeight = 2 * direction.Dot(normal)
		default:
			direction = core.SampleCosineHemisphere(normal, sampler.Get2D())
			cosineWeight = 1
		}

		radiance, err := tracer.CastRay(core.NewRay(origin, direction), sampler, depth+1, weight)
		if err != nil {
			return core.Vec3{}, err
		}
		sum = sum.Add(radiance.Multiply(cosineWeight))
	}

	return sum.Multiply(1 / float64(samples)).MultiplyVec(albedo), nil
}

// WorldNormal returns the normal facing the incoming ray
func (d *Diffuse) WorldNormal(hit *core.Intersection) core.Vec3 {
	return faceForward(hit)
}

// AmbientOcclusion samples occluders around position
func (d *Diffuse) AmbientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	return ambientOcclusion(tracer, sampler, position, normal)
}
