package material

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checkerboard alternates two colors over a UV grid of Scale×Scale checks
type Checkerboard struct {
	Even, Odd core.Vec3
	Scale     float64
}

// NewCheckerboard creates a checkerboard with scale checks along each UV axis
func NewCheckerboard(even, odd core.Vec3, scale float64) *Checkerboard {
	return &Checkerboard{Even: even, Odd: odd, Scale: scale}
}

// Evaluate picks the color of the check containing uv
func (c *Checkerboard) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	u := int(math.Floor(uv.X * c.Scale))
	v := int(math.Floor(uv.Y * c.Scale))
	if (u+v)&1 == 0 {
		return c.Even
	}
	return c.Odd
}
