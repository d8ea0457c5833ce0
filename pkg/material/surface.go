package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// faceForward returns the geometric normal flipped to face the incoming ray
func faceForward(hit *core.Intersection) core.Vec3 {
	if hit.FrontFace() {
		return hit.Normal
	}
	return hit.Normal.Negate()
}

// offsetOrigin nudges a secondary ray origin off the surface along normal
func offsetOrigin(position, normal core.Vec3) core.Vec3 {
	return position.Add(normal.Multiply(core.Epsilon))
}

// perturb rotates direction towards a random direction in the hemisphere
// around side by roughness, a fraction of the angle between them
func perturb(direction, side core.Vec3, roughness float64, sampler core.Sampler) core.Vec3 {
	if roughness <= 0 {
		return direction
	}
	random := core.SampleUniformHemisphere(side, sampler.Get2D())
	return core.Slerp(direction, random, roughness)
}

// noOcclusion is the attenuation of surfaces that ignore ambient occlusion
var noOcclusion = core.Splat(1)

// ambientOcclusion casts occlusion rays over the cosine-weighted hemisphere
// around normal and darkens by the fraction that hit geometry within the
// configured distance
func ambientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	settings := tracer.Settings()
	if settings.AOSamples <= 0 || settings.AOStrength <= 0 || settings.AODistance <= 0 {
		return noOcclusion
	}

	origin := offsetOrigin(position, normal)
	occluded := 0
	for i := 0; i < settings.AOSamples; i++ {
		ray := core.NewRay(origin, core.SampleCosineHemisphere(normal, sampler.Get2D()))
		if _, hit := tracer.Intersect(ray, core.MaskAmbientOcclusion, core.Epsilon, settings.AODistance); hit {
			occluded++
		}
	}

	factor := 1 - settings.AOStrength*float64(occluded)/float64(settings.AOSamples)
	return core.Splat(factor)
}
