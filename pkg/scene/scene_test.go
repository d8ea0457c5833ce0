package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/google/go-cmp/cmp"
)

func testCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Center: core.NewVec3(0, 0, -5),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	}
}

func TestNames(t *testing.T) {
	if diff := cmp.Diff([]string{"cornell", "default"}, Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	for _, info := range List() {
		if info.Description == "" {
			t.Errorf("Scene %s has no description", info.Name)
		}
	}
}

func TestByName_Unknown(t *testing.T) {
	if _, err := ByName("teapot"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestBuiltinScenesBuild(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(name)
			if err != nil {
				t.Fatalf("Failed to create scene: %v", err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if err := s.Build(context.Background(), geometry.DefaultBVHOptions()); err != nil {
				t.Fatalf("Failed to build scene: %v", err)
			}
			stats := s.BVH.Stats()
			if stats.Geometries != len(s.Geometries) {
				t.Errorf("Expected %d geometries in BVH, got %d", len(s.Geometries), stats.Geometries)
			}
			detail := 0
			for _, g := range s.Geometries {
				if slicer, ok := g.(geometry.Slicer); ok {
					detail += slicer.Complexity()
				} else {
					detail++
				}
			}
			if stats.Nodes > 2*detail {
				t.Errorf("Expected at most %d nodes for %d faces and objects, got %+v", 2*detail, detail, stats)
			}

			// The camera looks at something
			camera := s.NewCamera(1)
			ray := camera.GetRay(0.5, 0.5, core.NewSeededSampler(1))
			if _, ok := s.BVH.Intersect(ray, core.MaskVisible, core.Epsilon, 1e9); !ok {
				t.Errorf("Center ray %v hits nothing", ray)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	sphere := geometry.NewSphere(core.IdentityTransform(), 1, material.NewDiffuse(core.Splat(0.5)))

	empty := New("empty", testCameraConfig())
	if err := empty.Build(context.Background(), geometry.DefaultBVHOptions()); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("Expected ErrNoGeometry, got %v", err)
	}

	blind := New("blind", renderer.CameraConfig{})
	blind.Add(sphere)
	if err := blind.Build(context.Background(), geometry.DefaultBVHOptions()); !errors.Is(err, ErrNoCamera) {
		t.Errorf("Expected ErrNoCamera, got %v", err)
	}

	ok := New("ok", testCameraConfig())
	if _, err := ok.NewTracer(ok.Trace); err == nil {
		t.Errorf("Expected an error creating a tracer before Build")
	}
	ok.Add(sphere)
	if err := ok.Build(context.Background(), geometry.DefaultBVHOptions()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := ok.NewTracer(ok.Trace); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestDefaultScene_Renders(t *testing.T) {
	s, err := NewDefaultScene()
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	if err := s.Build(context.Background(), geometry.DefaultBVHOptions()); err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}

	tracer, err := s.NewTracer(s.Trace)
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	config := renderer.Config{Width: 8, Height: 6, SamplesPerPixel: 1, Passes: 1, TileSize: 4, NumWorkers: 2, Seed: 1}
	bitmap := renderer.NewBitmap(config.Width, config.Height)
	r := renderer.NewRenderer(s.NewCamera(float64(config.Width)/float64(config.Height)), tracer, config)

	if _, err := r.Render(context.Background(), bitmap); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// The top row looks over the back wall into the sky
	if sky := bitmap.GetPixel(0, 0); sky.Luminance() <= 0 {
		t.Errorf("Expected a lit sky pixel, got %v", sky)
	}
	if stats := tracer.Stats(); stats.RaysCast < int64(config.Width*config.Height) {
		t.Errorf("Expected at least one ray per pixel, got %+v", stats)
	}
}
