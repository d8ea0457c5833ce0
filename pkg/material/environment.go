package material

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Environment is the background, meant for an inside-out sphere enclosing the
// scene. Its radiance depends only on the ray direction: a gradient from
// Horizon to Zenith above the horizon and from Horizon to Ground below it.
type Environment struct {
	Zenith  core.Vec3
	Horizon core.Vec3
	Ground  core.Vec3
}

// NewGradientEnvironment creates a sky gradient
func NewGradientEnvironment(zenith, horizon, ground core.Vec3) *Environment {
	return &Environment{Zenith: zenith, Horizon: horizon, Ground: ground}
}

// Sample returns the sky radiance along the incoming ray
func (e *Environment) Sample(tracer core.Tracer, hit *core.Intersection, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	return e.Radiance(hit.Ray.Direction), nil
}

// Radiance returns the sky color in direction
func (e *Environment) Radiance(direction core.Vec3) core.Vec3 {
	y := direction.Normalize().Y
	if y >= 0 {
		return e.Horizon.Lerp(e.Zenith, math.Sqrt(y))
	}
	return e.Horizon.Lerp(e.Ground, math.Sqrt(-y))
}

// WorldNormal returns the normal facing the incoming ray
func (e *Environment) WorldNormal(hit *core.Intersection) core.Vec3 {
	return faceForward(hit)
}

// AmbientOcclusion is disabled for the environment
func (e *Environment) AmbientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	return noOcclusion
}
