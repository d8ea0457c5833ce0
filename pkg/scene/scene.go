package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

var (
	// ErrNoGeometry is returned when building a scene without any geometry
	ErrNoGeometry = errors.New("scene: no geometry")

	// ErrNoCamera is returned when the scene camera is missing or degenerate
	ErrNoCamera = errors.New("scene: no camera")

	// ErrUnknownScene is returned by ByName for unregistered names
	ErrUnknownScene = errors.New("scene: unknown scene")
)

var logger = log.New("scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Camera     renderer.CameraConfig
	Geometries []core.Geometry
	Trace      integrator.Config // Tracer settings the scene was tuned for
	BVH        *geometry.BVH
}

// New creates an empty scene with the default tracer settings
func New(name string, camera renderer.CameraConfig) *Scene {
	return &Scene{
		Name:   name,
		Camera: camera,
		Trace:  integrator.DefaultConfig(),
	}
}

// Add appends geometry to the scene
func (s *Scene) Add(geometries ...core.Geometry) {
	s.Geometries = append(s.Geometries, geometries...)
}

// Build validates the scene and builds its BVH
func (s *Scene) Build(ctx context.Context, opts geometry.BVHOptions) error {
	if s.Camera.VFov <= 0 || s.Camera.Center == s.Camera.LookAt {
		return fmt.Errorf("%w: %s", ErrNoCamera, s.Name)
	}
	if len(s.Geometries) == 0 {
		return fmt.Errorf("%w: %s", ErrNoGeometry, s.Name)
	}

	bvh, err := geometry.NewBVH(ctx, s.Geometries, opts)
	if err != nil {
		return fmt.Errorf("building %s: %w", s.Name, err)
	}
	s.BVH = bvh

	stats := bvh.Stats()
	logger.Infof("%s: %d geometries, %d BVH nodes, %d sliced, built in %v",
		s.Name, len(s.Geometries), stats.Nodes, stats.Sliced, stats.BuildTime)
	return nil
}

// NewCamera creates the scene camera for an image with the given aspect ratio
func (s *Scene) NewCamera(aspectRatio float64) *renderer.Camera {
	config := s.Camera
	config.AspectRatio = aspectRatio
	return renderer.NewCamera(config)
}

// NewTracer creates a path tracer over the built BVH
func (s *Scene) NewTracer(config integrator.Config) (*integrator.PathTracer, error) {
	if s.BVH == nil {
		return nil, fmt.Errorf("scene %s has not been built", s.Name)
	}
	return integrator.NewPathTracer(s.BVH, config), nil
}
