package geometry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func sphereGrid(n int) []core.Geometry {
	var geometries []core.Geometry
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				position := core.NewVec3(float64(x), float64(y), float64(z))
				geometries = append(geometries, NewSphere(core.Translation(position), 0.3, nil))
			}
		}
	}
	return geometries
}

func randomRay(random *rand.Rand, center core.Vec3, spread float64) core.Ray {
	origin := center.Add(core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64())).Multiply(spread))
	target := center.Add(core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(spread))
	return core.NewRayThrough(origin, target)
}

func TestNewBVH_Empty(t *testing.T) {
	if _, err := NewBVH(context.Background(), nil, DefaultBVHOptions()); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("Expected ErrNoGeometry, got %v", err)
	}
}

func TestNewBVH_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBVH(ctx, sphereGrid(2), DefaultBVHOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	geometries := sphereGrid(5)
	geometries = append(geometries, NewPlane(core.Translation(core.NewVec3(0, -1, 0)), nil))

	bvh, err := NewBVH(context.Background(), geometries, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}

	random := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		ray := randomRay(random, core.NewVec3(2, 2, 2), 8)
		want, wantOK := bruteForce(geometries, ray, core.MaskVisible, core.Epsilon, math.Inf(1))
		got, gotOK := bvh.Intersect(ray, core.MaskVisible, core.Epsilon, math.Inf(1))
		if wantOK != gotOK {
			t.Fatalf("Ray %d: brute force hit=%t, bvh hit=%t", i, wantOK, gotOK)
		}
		if wantOK && (math.Abs(want.T-got.T) > 1e-9 || want.Geometry != got.Geometry) {
			t.Fatalf("Ray %d: brute force t=%f, bvh t=%f", i, want.T, got.T)
		}
	}
}

func TestBVH_RespectsMask(t *testing.T) {
	visible := NewSphere(core.Translation(core.NewVec3(0, 0, 5)), 1, nil)
	light := NewSphere(core.Translation(core.NewVec3(0, 0, 2)), 0.5, nil)
	light.Mask = core.MaskLightSource

	bvh, err := NewBVH(context.Background(), []core.Geometry{visible, light}, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))

	hit, ok := bvh.Intersect(ray, core.MaskVisible, core.Epsilon, math.Inf(1))
	if !ok || hit.Geometry != visible {
		t.Error("Visible query should skip the light and hit the sphere behind it")
	}
	hit, ok = bvh.Intersect(ray, core.MaskLightSource, core.Epsilon, math.Inf(1))
	if !ok || hit.Geometry != light {
		t.Error("Light query should hit the light")
	}
	if _, ok := bvh.Intersect(ray, core.MaskNone, core.Epsilon, math.Inf(1)); ok {
		t.Error("Empty mask should not hit anything")
	}
}

func TestBVH_TreeInvariants(t *testing.T) {
	geometries := sphereGrid(4)
	bvh, err := NewBVH(context.Background(), geometries, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}
	nodes := bvh.Nodes()
	if len(nodes) < 3 {
		t.Fatalf("Expected a split tree, got %d nodes", len(nodes))
	}

	// Collect the geometry under every node
	var collect func(index int32) map[core.Geometry]bool
	collect = func(index int32) map[core.Geometry]bool {
		set := map[core.Geometry]bool{}
		if index < 0 {
			return set
		}
		for _, g := range nodes[index].Leaves {
			set[g] = true
		}
		for g := range collect(nodes[index].Left) {
			set[g] = true
		}
		for g := range collect(nodes[index].Right) {
			set[g] = true
		}
		return set
	}

	if got := len(collect(0)); got != len(geometries) {
		t.Fatalf("Root holds %d geometries, expected %d", got, len(geometries))
	}

	for i, node := range nodes {
		parent := collect(int32(i))
		bounds := core.EmptyAABB()
		for _, g := range node.Leaves {
			bounds = bounds.Union(g.BoundingBox())
		}

		for _, child := range []int32{node.Left, node.Right} {
			if child < 0 {
				continue
			}
			set := collect(child)
			if len(set) == 0 || len(set) >= len(parent) {
				t.Errorf("Node %d: child %d holds %d of %d geometries", i, child, len(set), len(parent))
			}
			for g := range set {
				if !parent[g] {
					t.Errorf("Node %d: child %d holds geometry missing from the parent", i, child)
				}
			}
			if !node.Bounds.ContainsBox(nodes[child].Bounds) {
				t.Errorf("Node %d does not contain child %d", i, child)
			}
			bounds = bounds.Union(nodes[child].Bounds)
		}

		assertVec(t, "bounds min", node.Bounds.Min, bounds.Min)
		assertVec(t, "bounds max", node.Bounds.Max, bounds.Max)
	}

	stats := bvh.Stats()
	if stats.Nodes != len(nodes) || stats.Geometries != len(geometries) || stats.LeafRefs != len(geometries) {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestBVH_SlicesMeshes(t *testing.T) {
	mesh, err := NewMesh(wavySource(16), scaled(core.Vec3{}, 3), nil)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}

	bvh, err := NewBVH(context.Background(), []core.Geometry{mesh}, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}
	if bvh.Stats().Sliced == 0 {
		t.Fatal("Expected the mesh to be sliced")
	}
	if stats := bvh.Stats(); stats.Nodes < 3 || stats.Nodes > 2*mesh.Complexity() {
		t.Errorf("Expected a split tree bounded by the face count, got %+v", stats)
	}
	assertVec(t, "bounds min", mesh.BoundingBox().Min, bvh.BoundingBox().Min)
	assertVec(t, "bounds max", mesh.BoundingBox().Max, bvh.BoundingBox().Max)

	random := rand.New(rand.NewSource(5))
	for i := 0; i < 300; i++ {
		origin := core.NewVec3(random.Float64()*7-3.5, 4, random.Float64()*7-3.5)
		ray := core.NewRay(origin, core.NewVec3(random.Float64()*0.4-0.2, -1, random.Float64()*0.4-0.2))

		want, wantOK := mesh.Intersect(ray, core.Epsilon, math.Inf(1))
		got, gotOK := bvh.Intersect(ray, core.MaskVisible, core.Epsilon, math.Inf(1))
		if wantOK != gotOK {
			t.Fatalf("Ray %d: mesh hit=%t, bvh hit=%t", i, wantOK, gotOK)
		}
		if wantOK {
			assertFloat(t, "t", want.T, got.T)
		}
	}
}

func TestBVH_SlicingStaysBoundedWithNeighbours(t *testing.T) {
	mesh, err := NewMesh(wavySource(16), scaled(core.Vec3{}, 3), nil)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}

	// Spheres scattered over the mesh put split planes off the grid lines,
	// so every cut through the mesh leaves sliver faces behind
	geometries := []core.Geometry{mesh}
	random := rand.New(rand.NewSource(11))
	for i := 0; i < 12; i++ {
		position := core.NewVec3(random.Float64()*6-3, random.Float64()-0.5, random.Float64()*6-3)
		geometries = append(geometries, NewSphere(core.Translation(position), 0.1+0.3*random.Float64(), nil))
	}

	bvh, err := NewBVH(context.Background(), geometries, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}

	stats := bvh.Stats()
	faces := mesh.Complexity()
	if stats.Nodes > 2*faces || stats.Sliced > faces {
		t.Errorf("Slicing is unbounded for %d faces: %+v", faces, stats)
	}

	for i := 0; i < 300; i++ {
		ray := randomRay(random, core.Vec3{}, 6)
		want, wantOK := bruteForce(geometries, ray, core.MaskVisible, core.Epsilon, math.Inf(1))
		got, gotOK := bvh.Intersect(ray, core.MaskVisible, core.Epsilon, math.Inf(1))
		if wantOK != gotOK {
			t.Fatalf("Ray %d: brute force hit=%t, bvh hit=%t", i, wantOK, gotOK)
		}
		if wantOK {
			assertFloat(t, "t", want.T, got.T)
		}
	}
}

func TestNewBVH_ZeroOptionsUseDefaults(t *testing.T) {
	geometries := sphereGrid(3)
	zero, err := NewBVH(context.Background(), geometries, BVHOptions{})
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}
	defaults, err := NewBVH(context.Background(), geometries, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}

	got, want := zero.Stats(), defaults.Stats()
	if got.Nodes != want.Nodes || got.MaxDepth != want.MaxDepth || got.LeafRefs != want.LeafRefs {
		t.Errorf("Zero options built %+v, defaults built %+v", got, want)
	}
	if got.Nodes == 1 {
		t.Error("Expected zero options to split the grid")
	}
}

func TestBVH_SingleWorker(t *testing.T) {
	opts := DefaultBVHOptions()
	opts.Workers = 1
	opts.MaxDepth = 2

	bvh, err := NewBVH(context.Background(), sphereGrid(3), opts)
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}
	if bvh.Stats().MaxDepth > 2 {
		t.Errorf("Expected depth <= 2, got %d", bvh.Stats().MaxDepth)
	}
	if bvh.Stats().LeafRefs != 27 {
		t.Errorf("Expected 27 leaf references, got %d", bvh.Stats().LeafRefs)
	}
}
