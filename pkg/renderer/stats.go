package renderer

import (
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Passes         int           // Passes completed
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MinSamples     int           // Fewest samples taken by any pixel
	MaxSamples     int           // Most samples taken by any pixel
	Duration       time.Duration // Wall time of the render
}

// PixelStats accumulates the samples of one pixel
type PixelStats struct {
	ColorAccum  core.Vec3
	SampleCount int
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// Merge adds the samples accumulated in other
func (ps *PixelStats) Merge(other PixelStats) {
	ps.ColorAccum = ps.ColorAccum.Add(other.ColorAccum)
	ps.SampleCount += other.SampleCount
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
