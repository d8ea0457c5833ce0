package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Emissive is a light source. It returns its emission without bouncing.
type Emissive struct {
	Emission core.Vec3
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Sample returns the emitted radiance
func (e *Emissive) Sample(tracer core.Tracer, hit *core.Intersection, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	return e.Emission, nil
}

// WorldNormal returns the normal facing the incoming ray
func (e *Emissive) WorldNormal(hit *core.Intersection) core.Vec3 {
	return faceForward(hit)
}

// AmbientOcclusion is disabled for light sources
func (e *Emissive) AmbientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	return noOcclusion
}
