package renderer

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// CameraConfig describes a thin-lens camera
type CameraConfig struct {
	Center        core.Vec3 // Eye position
	LookAt        core.Vec3
	Up            core.Vec3
	VFov          float64 // Vertical field of view in degrees
	AspectRatio   float64 // Width / height
	Aperture      float64 // Lens diameter, 0 for a pinhole
	FocusDistance float64 // Distance to the plane in focus, 0 focuses on LookAt
}

// Camera generates primary rays
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
}

// NewCamera creates a camera from config
func NewCamera(config CameraConfig) *Camera {
	focus := config.FocusDistance
	if focus <= 0 {
		focus = config.LookAt.Subtract(config.Center).Length()
	}

	h := math.Tan(config.VFov * math.Pi / 360)
	viewportHeight := 2 * h
	viewportWidth := viewportHeight * config.AspectRatio

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth * focus)
	vertical := v.Multiply(viewportHeight * focus)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focus))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.w.Negate()
}

// GetRay returns a ray through viewport coordinates (s, t) in [0, 1], with
// (0, 0) the lower left corner. With a non-zero aperture the origin is jittered
// over the lens using sampler.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin))
}
