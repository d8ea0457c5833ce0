package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Tracer computes the radiance carried by a primary ray
type Tracer interface {
	Trace(ctx context.Context, ray core.Ray, sampler core.Sampler) (core.Vec3, error)
}

// Config contains configuration for progressive rendering
type Config struct {
	Width, Height   int
	SamplesPerPixel int   // Total samples per pixel after the last pass
	Passes          int   // Number of progressive passes
	TileSize        int   // Edge length of a square tile in pixels
	NumWorkers      int   // Parallel tile workers (0 = use CPU count)
	Seed            int64 // Base seed of the per-pixel samplers
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          300,
		SamplesPerPixel: 32,
		Passes:          4,
		TileSize:        32,
		NumWorkers:      0,
		Seed:            42,
	}
}

// PassResult reports a completed pass
type PassResult struct {
	Pass   int
	Stats  RenderStats
	IsLast bool
}

// Renderer renders an image in progressive passes. Each pass splits the image
// into tiles that are rendered in parallel; samples accumulate across passes
// and the running average is written to the sink after every pass.
type Renderer struct {
	camera *Camera
	tracer Tracer
	config Config
	tiles  []Tile
	pixels []PixelStats
	locks  shardLocks
	logger log.Logger

	// OnPass, when set, is called after each pass has been written to the sink
	OnPass func(PassResult)
}

// NewRenderer creates a renderer for camera and tracer
func NewRenderer(camera *Camera, tracer Tracer, config Config) *Renderer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	config.SamplesPerPixel = max(1, config.SamplesPerPixel)
	config.Passes = max(1, min(config.Passes, config.SamplesPerPixel))

	return &Renderer{
		camera: camera,
		tracer: tracer,
		config: config,
		tiles:  NewTileGrid(config.Width, config.Height, config.TileSize),
		pixels: make([]PixelStats, config.Width*config.Height),
		logger: log.New("renderer"),
	}
}

// Config returns the effective render configuration
func (r *Renderer) Config() Config {
	return r.config
}

// samplesForPass returns the total samples every pixel should hold once pass
// (1-based) completes. The first pass is a single sample preview and the rest
// are spread evenly over the remaining passes.
func (r *Renderer) samplesForPass(pass int) int {
	if r.config.Passes == 1 || pass >= r.config.Passes {
		return r.config.SamplesPerPixel
	}
	if pass == 1 {
		return 1
	}
	perPass := (r.config.SamplesPerPixel - 1) / (r.config.Passes - 1)
	return 1 + (pass-1)*perPass
}

// Render runs every pass and writes the image to sink. A cancelled context
// stops the render at the next pixel boundary and returns an error wrapping
// both ErrInterrupted and the context error.
func (r *Renderer) Render(ctx context.Context, sink PixelSink) (RenderStats, error) {
	if sink.Width() != r.config.Width || sink.Height() != r.config.Height {
		return RenderStats{}, fmt.Errorf("%w: sink is %dx%d, render is %dx%d",
			ErrInvalidSink, sink.Width(), sink.Height(), r.config.Width, r.config.Height)
	}

	start := time.Now()
	r.logger.Infof("rendering %dx%d, %d samples per pixel in %d passes, %d tiles on %d workers",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, r.config.Passes, len(r.tiles), r.config.NumWorkers)

	var stats RenderStats
	for pass := 1; pass <= r.config.Passes; pass++ {
		passStart := time.Now()
		target := r.samplesForPass(pass)

		if err := r.renderPass(ctx, pass, target); err != nil {
			stats.Duration = time.Since(start)
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				r.logger.Noticef("render cancelled during pass %d", pass)
				return stats, fmt.Errorf("%w: %w", ErrInterrupted, err)
			}
			return stats, err
		}

		stats = r.flush(sink)
		stats.Passes = pass
		stats.Duration = time.Since(start)
		r.logger.Infof("pass %d/%d done in %v (%d samples per pixel)",
			pass, r.config.Passes, time.Since(passStart), target)

		if r.OnPass != nil {
			r.OnPass(PassResult{Pass: pass, Stats: stats, IsLast: pass == r.config.Passes})
		}
	}
	return stats, nil
}

// renderPass renders all tiles up to target samples per pixel
func (r *Renderer) renderPass(ctx context.Context, pass, target int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.NumWorkers)
	for _, tile := range r.tiles {
		tile := tile
		g.Go(func() error {
			return r.renderTile(ctx, tile, pass, target)
		})
	}
	return g.Wait()
}

// renderTile brings every pixel of tile up to target samples
func (r *Renderer) renderTile(ctx context.Context, tile Tile, pass, target int) error {
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.renderPixel(ctx, x, y, pass, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderPixel traces the missing samples of one pixel with a sampler seeded
// from the pixel and pass so results do not depend on scheduling
func (r *Renderer) renderPixel(ctx context.Context, x, y, pass, target int) error {
	idx := y*r.config.Width + x

	r.locks.lock(idx)
	have := r.pixels[idx].SampleCount
	r.locks.unlock(idx)
	if have >= target {
		return nil
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(r.pixelSeed(idx, pass))))
	var local PixelStats
	for i := have; i < target; i++ {
		jitter := sampler.Get2D()
		s := (float64(x) + jitter.X) / float64(r.config.Width)
		t := 1 - (float64(y)+jitter.Y)/float64(r.config.Height)

		color, err := r.tracer.Trace(ctx, r.camera.GetRay(s, t, sampler), sampler)
		if err != nil {
			return err
		}
		local.AddSample(color)
	}

	r.locks.lock(idx)
	r.pixels[idx].Merge(local)
	r.locks.unlock(idx)
	return nil
}

func (r *Renderer) pixelSeed(idx, pass int) int64 {
	return r.config.Seed*7919 + int64(pass)*int64(len(r.pixels)) + int64(idx)
}

// flush writes the running averages to sink and gathers statistics
func (r *Renderer) flush(sink PixelSink) RenderStats {
	stats := RenderStats{
		TotalPixels: len(r.pixels),
		MinSamples:  r.config.SamplesPerPixel,
	}
	for idx := range r.pixels {
		r.locks.lock(idx)
		ps := r.pixels[idx]
		r.locks.unlock(idx)

		sink.SetPixel(idx%r.config.Width, idx/r.config.Width, ps.GetColor())
		stats.TotalSamples += ps.SampleCount
		stats.MinSamples = min(stats.MinSamples, ps.SampleCount)
		stats.MaxSamples = max(stats.MaxSamples, ps.SampleCount)
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}
