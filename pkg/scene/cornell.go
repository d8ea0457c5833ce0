package scene

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// NewCornellScene creates a Cornell box spanning [-1, 1] on every axis with the
// front side open towards the camera
func NewCornellScene() (*Scene, error) {
	s := New("cornell", renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, -3.8),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	})
	s.Trace.MaxDepth = 12
	s.Trace.GISamples = 1

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))

	// Unit quads face +Y; each wall is rotated so its normal points into the box
	wall := func(position core.Vec3, x, z float64, m core.Material) *geometry.Quad {
		return geometry.NewQuad(placed(position, core.RotationXYZ(x, 0, z), core.Splat(1)), m)
	}
	floor := wall(core.NewVec3(0, -1, 0), 0, 0, white)
	ceiling := wall(core.NewVec3(0, 1, 0), math.Pi, 0, white)
	back := wall(core.NewVec3(0, 0, 1), -math.Pi/2, 0, white)
	left := wall(core.NewVec3(-1, 0, 0), 0, -math.Pi/2, red)
	right := wall(core.NewVec3(1, 0, 0), 0, math.Pi/2, green)

	light := geometry.NewQuad(placed(core.NewVec3(0, 0.998, 0), core.RotationXYZ(math.Pi, 0, 0), core.NewVec3(0.25, 1, 0.25)),
		material.NewEmissive(core.NewVec3(15, 15, 15)))
	light.Mask = core.MaskVisible | core.MaskLightSource

	s.Add(floor, ceiling, back, left, right, light)

	// Hollow glass shell: the inner sphere has a negative radius so its
	// normals face the cavity
	glass := material.NewRefractive(1.5)
	outer := geometry.NewSphere(core.Translation(core.NewVec3(0.4, -0.6, -0.2)), 0.4, glass)
	inner := geometry.NewSphere(core.Translation(core.NewVec3(0.4, -0.6, -0.2)), -0.36, glass)

	// Tall block mixing diffuse and mirror responses
	block := geometry.NewCube(placed(core.NewVec3(-0.35, -0.4, 0.3), core.RotationXYZ(0, math.Pi/10, 0), core.NewVec3(0.55, 1.2, 0.55)),
		material.NewMix(white, material.NewReflective(core.Splat(0.95), 0.05), 0.35))

	// Tinted glass cube
	tinted := geometry.NewCube(placed(core.NewVec3(-0.45, -0.85, -0.55), core.RotationXYZ(0, -math.Pi/8, 0), core.Splat(0.3)),
		material.NewTintedRefractive(1.45, core.NewVec3(0.3, 0.6, 1), 3))

	s.Add(outer, inner, block, tinted)
	return s, nil
}
