package main

import (
	"fmt"
	"os"

	"github.com/df07/go-bvh-pathtracer/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	// -v is taken by the verbosity flag
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes with a BVH accelerated path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Render a built-in scene in progressive passes and save the result as a PNG.
Tracer flags left at their defaults use the settings the scene was tuned for.
Interrupting the render saves the passes completed so far.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene to render",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 400,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 300,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 32,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "passes",
					Value: 4,
					Usage: "progressive passes",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum path depth (0 = scene default)",
				},
				cli.IntFlag{
					Name:  "gi",
					Usage: "global illumination rays per diffuse bounce (0 = scene default)",
				},
				cli.IntFlag{
					Name:  "ao",
					Value: -1,
					Usage: "ambient occlusion rays per hit (-1 = scene default, 0 = off)",
				},
				cli.StringFlag{
					Name:  "roulette",
					Usage: "russian roulette mode: throughput, depth or off (empty = scene default)",
				},
				cli.IntFlag{
					Name:  "tile",
					Value: 32,
					Usage: "tile size in pixels",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "render workers (0 = number of CPUs)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "sampler seed",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: 2.2,
					Usage: "output gamma",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "bvh",
			Usage: "build the BVH of a scene and print its statistics",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Usage: "maximum tree depth (0 = default)",
				},
				cli.IntFlag{
					Name:  "min-slice",
					Usage: "minimum mesh complexity before straddling meshes are sliced (0 = default)",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "concurrent subtree builds (0 = number of CPUs)",
				},
			},
			Action: cmd.ShowBVH,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pathtracer: %v\n", err)
		os.Exit(1)
	}
}
