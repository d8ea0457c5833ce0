package integrator

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
)

// Accelerator answers nearest-hit queries against the scene
type Accelerator interface {
	Intersect(ray core.Ray, mask core.RayMask, tMin, tMax float64) (core.Intersection, bool)
}

// Stats counts what the tracer did since it was created
type Stats struct {
	RaysCast             int64 // CastRay calls, including secondary rays
	Misses               int64 // Rays that left the scene
	DepthTerminations    int64 // Paths cut by MaxDepth
	RouletteTerminations int64 // Paths cut by Russian roulette
}

// PathTracer is a unidirectional path tracer. Materials drive the light
// transport by casting secondary rays back through it; the tracer only
// provides nearest-hit queries, path termination and ambient occlusion.
// It is safe for concurrent use.
type PathTracer struct {
	scene  Accelerator
	config Config
	logger log.Logger

	raysCast             atomic.Int64
	misses               atomic.Int64
	depthTerminations    atomic.Int64
	rouletteTerminations atomic.Int64
}

// NewPathTracer creates a path tracer over scene
func NewPathTracer(scene Accelerator, config Config) *PathTracer {
	pt := &PathTracer{
		scene:  scene,
		config: config,
		logger: log.New("tracer"),
	}
	pt.logger.Infof("max depth %d, %d GI samples, %d AO samples, roulette %s",
		config.MaxDepth, config.GISamples, config.AOSamples, config.Roulette)
	return pt
}

// Config returns the tracer configuration
func (pt *PathTracer) Config() Config {
	return pt.config
}

// Stats returns a snapshot of the tracer counters
func (pt *PathTracer) Stats() Stats {
	return Stats{
		RaysCast:             pt.raysCast.Load(),
		Misses:               pt.misses.Load(),
		DepthTerminations:    pt.depthTerminations.Load(),
		RouletteTerminations: pt.rouletteTerminations.Load(),
	}
}

// Trace returns the radiance arriving along a primary ray. It returns ctx.Err()
// as soon as the context is cancelled, abandoning the rest of the path.
func (pt *PathTracer) Trace(ctx context.Context, ray core.Ray, sampler core.Sampler) (core.Vec3, error) {
	t := &tracer{PathTracer: pt, ctx: ctx}
	return t.CastRay(ray, sampler, 0, core.Splat(1))
}

// tracer binds a PathTracer to the context of one Trace call and is the
// core.Tracer handed to materials
type tracer struct {
	*PathTracer
	ctx context.Context
}

// CastRay evaluates one path segment: termination tests, the nearest hit and
// the material response scaled by ambient occlusion
func (t *tracer) CastRay(ray core.Ray, sampler core.Sampler, depth int, throughput core.Vec3) (core.Vec3, error) {
	if err := t.ctx.Err(); err != nil {
		return core.Vec3{}, err
	}
	t.raysCast.Add(1)

	if depth > t.config.MaxDepth {
		t.depthTerminations.Add(1)
		return core.Vec3{}, nil
	}

	survival, alive := t.roulette(sampler, depth, throughput)
	if !alive {
		t.rouletteTerminations.Add(1)
		return core.Vec3{}, nil
	}
	throughput = throughput.Multiply(1 / survival)

	hit, ok := t.scene.Intersect(ray, core.MaskVisible, t.config.MinDelta, math.Inf(1))
	if !ok {
		t.misses.Add(1)
		return core.Vec3{}, nil
	}
	if hit.Material == nil {
		return core.Vec3{}, nil
	}

	radiance, err := hit.Material.Sample(t, &hit, sampler, depth, throughput)
	if err != nil {
		return core.Vec3{}, err
	}

	normal := hit.Material.WorldNormal(&hit)
	occlusion := hit.Material.AmbientOcclusion(t, sampler, hit.Position, normal)
	return radiance.MultiplyVec(occlusion).Multiply(1 / survival), nil
}

// roulette decides whether a path survives and returns its survival
// probability p = max(throughput), clamped to 1
func (t *tracer) roulette(sampler core.Sampler, depth int, throughput core.Vec3) (float64, bool) {
	if t.config.Roulette == RouletteOff {
		return 1, true
	}

	p := math.Min(1, throughput.MaxComponent())
	if p <= 0 {
		return 0, false
	}

	u := sampler.Get1D()
	if t.config.Roulette == RouletteDepthScaled {
		u /= float64(depth + 1)
	}
	if u > p {
		return 0, false
	}
	return p, true
}

// Intersect queries the scene directly, used by materials for occlusion rays
func (t *tracer) Intersect(ray core.Ray, mask core.RayMask, tMin, tMax float64) (core.Intersection, bool) {
	return t.scene.Intersect(ray, mask, tMin, tMax)
}

// Settings returns the sampling parameters for materials
func (t *tracer) Settings() core.TraceSettings {
	return t.config.Settings()
}
