package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ShowBVH builds the BVH of a scene and prints its statistics.
func ShowBVH(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := scene.ByName(ctx.String("scene"))
	if err != nil {
		return err
	}

	opts := geometry.DefaultBVHOptions()
	if depth := ctx.Int("max-depth"); depth > 0 {
		opts.MaxDepth = depth
	}
	if workers := ctx.Int("workers"); workers > 0 {
		opts.Workers = workers
	}
	if slice := ctx.Int("min-slice"); slice > 0 {
		opts.MinSliceComplexity = slice
	}

	if err := sc.Build(context.Background(), opts); err != nil {
		return err
	}

	displayBVHStats(ctx, sc.Name, sc.BVH.Stats())
	return nil
}

func displayBVHStats(ctx *cli.Context, name string, stats geometry.BVHStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Geometries", "Nodes", "Leaf nodes", "Leaf refs", "Sliced", "Max depth", "Build time"})
	table.Append([]string{
		name,
		fmt.Sprintf("%d", stats.Geometries),
		fmt.Sprintf("%d", stats.Nodes),
		fmt.Sprintf("%d", stats.LeafNodes),
		fmt.Sprintf("%d", stats.LeafRefs),
		fmt.Sprintf("%d", stats.Sliced),
		fmt.Sprintf("%d", stats.MaxDepth),
		stats.BuildTime.String(),
	})
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
}
