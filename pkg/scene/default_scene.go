package scene

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/go-gl/mathgl/mgl64"
)

// NewDefaultScene creates a showcase of every primitive and CSG operator on a
// checkered ground under a gradient sky
func NewDefaultScene() (*Scene, error) {
	s := New("default", renderer.CameraConfig{
		Center:        core.NewVec3(0, 2.5, -9),
		LookAt:        core.NewVec3(0, 0.75, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40,
		AspectRatio:   4.0 / 3.0,
		Aperture:      0.05,
		FocusDistance: 0, // focus on LookAt
	})
	s.Trace.AOSamples = 4
	s.Trace.AODistance = 0.75
	s.Trace.AOStrength = 0.6

	// Sky: an inside-out sphere that only primary and bounce rays see
	sky := geometry.NewSphere(core.IdentityTransform(), -500, material.NewGradientEnvironment(
		core.NewVec3(0.35, 0.55, 0.95),
		core.NewVec3(0.95, 0.95, 1.0),
		core.NewVec3(0.25, 0.22, 0.2),
	))
	sky.Mask = core.MaskVisible

	ground := geometry.NewPlane(core.IdentityTransform(), material.NewTexturedDiffuse(
		material.NewCheckerboard(core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.25, 0.25, 0.3), 2),
	))

	sun := geometry.NewSphere(core.Translation(core.NewVec3(-6, 12, -4)), 2, material.NewEmissive(core.NewVec3(12, 11, 9)))
	sun.Mask = core.MaskVisible | core.MaskLightSource

	s.Add(sky, ground, sun)

	// Boolean solids along the back row
	union, err := geometry.NewUnion(
		geometry.NewSphere(core.Translation(core.NewVec3(-3.4, 0.8, 1.5)), 0.8, material.NewDiffuse(core.NewVec3(0.8, 0.2, 0.2))),
		geometry.NewSphere(core.Translation(core.NewVec3(-2.6, 0.8, 1.5)), 0.8, material.NewDiffuse(core.NewVec3(0.8, 0.5, 0.2))),
	)
	if err != nil {
		return nil, err
	}

	carved, err := geometry.NewDifference(
		geometry.NewCube(placed(core.NewVec3(0, 0.8, 1.5), core.RotationXYZ(0, math.Pi/6, 0), core.Splat(1.6)), material.NewReflective(core.NewVec3(0.9, 0.85, 0.7), 0.15)),
		geometry.NewSphere(core.Translation(core.NewVec3(0, 1.2, 1.5)), 1, material.NewDiffuse(core.NewVec3(0.9, 0.9, 0.9))),
	)
	if err != nil {
		return nil, err
	}

	lens, err := geometry.NewIntersection(
		geometry.NewSphere(core.Translation(core.NewVec3(2.6, 0.8, 1.5)), 0.9, material.NewFrostedRefractive(1.5, 0.2)),
		geometry.NewCube(placed(core.NewVec3(3, 0.8, 1.5), core.RotationXYZ(0, 0, math.Pi/4), core.Splat(1.4)), material.NewDiffuse(core.NewVec3(0.2, 0.7, 0.4))),
	)
	if err != nil {
		return nil, err
	}
	s.Add(union, carved, lens)

	// Front row primitives
	glass := geometry.NewSphere(core.Translation(core.NewVec3(-1.2, 0.6, -1)), 0.6, material.NewRefractive(1.5))
	cylinder := geometry.NewCylinder(placed(core.NewVec3(1.2, 0.5, -1), core.RotationXYZ(0, 0, 0), core.NewVec3(0.4, 0.5, 0.4)),
		material.NewReflective(core.NewVec3(0.95, 0.64, 0.54), 0.3))
	capsule := geometry.NewCapsule(placed(core.NewVec3(2.4, 0.35, -1.6), core.RotationXYZ(0, 0, math.Pi/2), core.Splat(0.35)), 1,
		material.NewMix(material.NewDiffuse(core.NewVec3(0.9, 0.9, 0.2)), material.NewReflective(core.Splat(0.9), 0), 0.3))
	disc := geometry.NewDisc(placed(core.NewVec3(-2.6, 0.01, -1.4), core.RotationXYZ(0, 0, 0), core.Splat(0.7)),
		material.NewDiffuse(core.NewVec3(0.6, 0.1, 0.6)))
	quad := geometry.NewQuad(placed(core.NewVec3(0, 1.2, 4), core.RotationXYZ(-math.Pi/2, 0, 0), core.NewVec3(4, 1, 1.2)),
		material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.75)))
	triangle := geometry.NewTriangle(core.Translation(core.NewVec3(0, 0, -2.2)), geometry.Face{
		{Position: core.NewVec3(-0.4, 0.01, 0), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(0, 0)},
		{Position: core.NewVec3(0, 0.01, 0.6), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(0.5, 1)},
		{Position: core.NewVec3(0.4, 0.01, 0), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(1, 0)},
	}, material.NewEmissive(core.NewVec3(3, 0.6, 0.2)))
	s.Add(glass, cylinder, capsule, disc, quad, triangle)

	// Rolling terrain to the right, sliced by the BVH into pieces
	terrain, err := geometry.NewMesh(geometry.HeightfieldSource{
		Resolution: 32,
		Height: func(x, z float64) float64 {
			return 0.15 * math.Sin(4*x) * math.Cos(3*z)
		},
	}, placed(core.NewVec3(5.5, 0.2, -0.5), core.RotationXYZ(0, -math.Pi/8, 0), core.NewVec3(1.5, 1, 2.5)),
		material.NewDiffuse(core.NewVec3(0.45, 0.6, 0.3)))
	if err != nil {
		return nil, err
	}
	s.Add(terrain)

	return s, nil
}

// placed builds a transform from its three components
func placed(position core.Vec3, rotation mgl64.Quat, scale core.Vec3) core.Transform {
	return core.Transform{Position: position, Rotation: rotation, Scale: scale}
}
