package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Reflective is a mirror-like surface. Roughness in [0, 1] spreads the
// reflection by rotating the mirror direction towards a random direction in
// the hemisphere.
type Reflective struct {
	Albedo    core.Vec3
	Roughness float64
}

// NewReflective creates a reflective material
func NewReflective(albedo core.Vec3, roughness float64) *Reflective {
	return &Reflective{Albedo: albedo, Roughness: max(0, min(1, roughness))}
}

// Sample follows the (perturbed) mirror direction
func (r *Reflective) Sample(tracer core.Tracer, hit *core.Intersection, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	normal := r.WorldNormal(hit)
	direction := perturb(hit.Ray.Direction.Normalize().Reflect(normal), normal, r.Roughness, sampler)
	if direction.Dot(normal) <= 0 {
		// Perturbed below the surface: absorbed
		return core.Vec3{}, nil
	}

	ray := core.NewRay(offsetOrigin(hit.Position, normal), direction)
	radiance, err := tracer.CastRay(ray, sampler, depth+1, throughput.MultiplyVec(r.Albedo))
	if err != nil {
		return core.Vec3{}, err
	}
	return radiance.MultiplyVec(r.Albedo), nil
}

// WorldNormal returns the normal facing the incoming ray
func (r *Reflective) WorldNormal(hit *core.Intersection) core.Vec3 {
	return faceForward(hit)
}

// AmbientOcclusion samples occluders around position
func (r *Reflective) AmbientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	return ambientOcclusion(tracer, sampler, position, normal)
}
