package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"

	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderFrame renders a still frame of a built-in scene and saves it as PNG.
// An interrupt stops the render and saves the passes completed so far.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := scene.ByName(ctx.String("scene"))
	if err != nil {
		return err
	}

	traceConfig, err := traceOverrides{
		depth:    ctx.Int("depth"),
		gi:       ctx.Int("gi"),
		ao:       ctx.Int("ao"),
		roulette: ctx.String("roulette"),
	}.apply(sc.Trace)
	if err != nil {
		return err
	}

	opts := renderer.Config{
		Width:           ctx.Int("width"),
		Height:          ctx.Int("height"),
		SamplesPerPixel: ctx.Int("spp"),
		Passes:          ctx.Int("passes"),
		TileSize:        ctx.Int("tile"),
		NumWorkers:      ctx.Int("workers"),
		Seed:            ctx.Int64("seed"),
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bvhOpts := geometry.DefaultBVHOptions()
	if opts.NumWorkers > 0 {
		bvhOpts.Workers = opts.NumWorkers
	}
	if err := sc.Build(runCtx, bvhOpts); err != nil {
		return err
	}

	tracer, err := sc.NewTracer(traceConfig)
	if err != nil {
		return err
	}

	camera := sc.NewCamera(float64(opts.Width) / float64(opts.Height))
	r := renderer.NewRenderer(camera, tracer, opts)
	bitmap := renderer.NewBitmap(opts.Width, opts.Height)
	defer bitmap.Close()

	stats, renderErr := r.Render(runCtx, bitmap)
	if renderErr != nil && !errors.Is(renderErr, renderer.ErrInterrupted) {
		return renderErr
	}
	if renderErr != nil {
		logger.Noticef("render interrupted after %d passes, saving partial frame", stats.Passes)
	}

	if err := savePNG(ctx.String("out"), bitmap, ctx.Float64("gamma")); err != nil {
		return err
	}
	logger.Noticef("frame saved to %s", ctx.String("out"))

	displayFrameStats(ctx, stats, tracer.Stats())
	return renderErr
}

// traceOverrides holds the tracer flags. Zero values (and -1 for ao) keep
// the scene's own setting.
type traceOverrides struct {
	depth    int
	gi       int
	ao       int
	roulette string
}

func (o traceOverrides) apply(config integrator.Config) (integrator.Config, error) {
	if o.depth > 0 {
		config.MaxDepth = o.depth
	}
	if o.gi > 0 {
		config.GISamples = o.gi
	}
	if o.ao >= 0 {
		config.AOSamples = o.ao
	}
	if o.roulette != "" {
		mode, err := integrator.ParseRouletteMode(o.roulette)
		if err != nil {
			return config, err
		}
		config.Roulette = mode
	}
	return config, nil
}

func savePNG(path string, bitmap *renderer.Bitmap, gamma float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, bitmap.ToImage(gamma)); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func displayFrameStats(ctx *cli.Context, stats renderer.RenderStats, traced integrator.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Passes", "Pixels", "Samples", "Avg spp", "Rays cast", "Misses", "Roulette cut", "Depth cut", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Passes),
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%.1f", stats.AverageSamples),
		fmt.Sprintf("%d", traced.RaysCast),
		fmt.Sprintf("%d", traced.Misses),
		fmt.Sprintf("%d", traced.RouletteTerminations),
		fmt.Sprintf("%d", traced.DepthTerminations),
		stats.Duration.String(),
	})
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
}
