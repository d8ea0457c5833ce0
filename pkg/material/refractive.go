package material

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Refractive is a transparent medium such as glass or water. Light travelling
// inside it is absorbed exponentially with distance: channels where Tint is
// below one fade at a rate scaled by Density. Roughness in [0, 1] frosts the
// surface by spreading both the reflected and the refracted direction.
type Refractive struct {
	IOR       float64
	Tint      core.Vec3
	Density   float64
	Roughness float64
}

// NewRefractive creates a clear refractive material
func NewRefractive(ior float64) *Refractive {
	return &Refractive{IOR: ior, Tint: core.Splat(1)}
}

// NewFrostedRefractive creates a clear refractive material with a rough surface
func NewFrostedRefractive(ior, roughness float64) *Refractive {
	return &Refractive{IOR: ior, Tint: core.Splat(1), Roughness: max(0, min(1, roughness))}
}

// NewTintedRefractive creates a refractive material that absorbs light
func NewTintedRefractive(ior float64, tint core.Vec3, density float64) *Refractive {
	return &Refractive{IOR: ior, Tint: tint, Density: density}
}

// Sample blends the reflected and refracted rays by Fresnel reflectance
func (r *Refractive) Sample(tracer core.Tracer, hit *core.Intersection, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	direction := hit.Ray.Direction.Normalize()
	entering := hit.FrontFace()
	normal := faceForward(hit)

	ratio := r.IOR
	if entering {
		ratio = 1 / r.IOR
	}

	cosTheta := math.Min(-direction.Dot(normal), 1)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	reflectance := 1.0
	if ratio*sinTheta <= 1 {
		reflectance = Reflectance(cosTheta, ratio)
	}

	var result core.Vec3
	reflected := perturb(direction.Reflect(normal), normal, r.Roughness, sampler)
	if reflectance > 0 && reflected.Dot(normal) > 0 {
		ray := core.NewRay(offsetOrigin(hit.Position, normal), reflected)
		radiance, err := tracer.CastRay(ray, sampler, depth+1, throughput.Multiply(reflectance))
		if err != nil {
			return core.Vec3{}, err
		}
		result = result.Add(radiance.Multiply(reflectance))
	}
	if reflectance < 1 {
		inward := normal.Negate()
		refracted := perturb(refract(direction, normal, ratio), inward, r.Roughness, sampler)
		if refracted.Dot(inward) <= 0 {
			// Spread back over the surface: absorbed
			return r.attenuate(result, entering, hit), nil
		}
		ray := core.NewRay(offsetOrigin(hit.Position, inward), refracted)
		radiance, err := tracer.CastRay(ray, sampler, depth+1, throughput.Multiply(1-reflectance))
		if err != nil {
			return core.Vec3{}, err
		}
		result = result.Add(radiance.Multiply(1 - reflectance))
	}

	return r.attenuate(result, entering, hit), nil
}

// attenuate applies absorption when the ray reaching hit travelled through
// the medium
func (r *Refractive) attenuate(radiance core.Vec3, entering bool, hit *core.Intersection) core.Vec3 {
	if entering {
		return radiance
	}
	return radiance.MultiplyVec(r.Transmittance(hit.Distance()))
}

// Transmittance returns the fraction of light surviving distance inside the medium
func (r *Refractive) Transmittance(distance float64) core.Vec3 {
	if r.Density <= 0 {
		return core.Splat(1)
	}
	return core.Splat(1).Subtract(r.Tint).Multiply(-r.Density * distance).Exp()
}

// WorldNormal returns the normal facing the incoming ray
func (r *Refractive) WorldNormal(hit *core.Intersection) core.Vec3 {
	return faceForward(hit)
}

// AmbientOcclusion is disabled for transparent media
func (r *Refractive) AmbientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	return noOcclusion
}

// refract bends the unit vector uv through a surface with normal n using Snell's law
func refract(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	perpendicular := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	parallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - perpendicular.LengthSquared())))
	return perpendicular.Add(parallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
