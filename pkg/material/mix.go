package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Mix stochastically picks one of two materials per sample. Ratio is the
// probability of picking Second.
type Mix struct {
	First  core.Material
	Second core.Material
	Ratio  float64
}

// NewMix creates a new mix material
func NewMix(first, second core.Material, ratio float64) *Mix {
	return &Mix{First: first, Second: second, Ratio: max(0, min(1, ratio))}
}

func (m *Mix) pick(sampler core.Sampler) core.Material {
	if sampler.Get1D() < m.Ratio {
		return m.Second
	}
	return m.First
}

// Sample delegates to one of the two materials and applies that material's
// ambient occlusion
func (m *Mix) Sample(tracer core.Tracer, hit *core.Intersection, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	picked := m.pick(sampler)
	radiance, err := picked.Sample(tracer, hit, sampler, depth, throughput)
	if err != nil {
		return core.Vec3{}, err
	}
	occlusion := picked.AmbientOcclusion(tracer, sampler, hit.Position, picked.WorldNormal(hit))
	return radiance.MultiplyVec(occlusion), nil
}

// WorldNormal returns the normal of the first material
func (m *Mix) WorldNormal(hit *core.Intersection) core.Vec3 {
	return m.First.WorldNormal(hit)
}

// AmbientOcclusion is applied by Sample for the picked material
func (m *Mix) AmbientOcclusion(tracer core.Tracer, sampler core.Sampler, position, normal core.Vec3) core.Vec3 {
	return noOcclusion
}
