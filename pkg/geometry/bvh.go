package geometry

import (
	"context"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BVHOptions control how the hierarchy is built. Zero values are replaced by
// the matching DefaultBVHOptions field.
type BVHOptions struct {
	// MaxDepth stops subdivision; nodes at this depth keep all their geometry
	MaxDepth int

	// MinSliceComplexity is the complexity a straddling Slicer needs before it
	// is cut in two instead of being kept at the node
	MinSliceComplexity int

	// SplitOffsets are the parametric positions along each object's extent
	// that are tried as split candidates
	SplitOffsets []float64

	// MaxCandidateObjects caps how many objects per node contribute split
	// candidates; larger sets are subsampled evenly
	MaxCandidateObjects int

	// Workers bounds the number of subtrees built concurrently
	Workers int
}

// DefaultBVHOptions returns the options used for scene builds
func DefaultBVHOptions() BVHOptions {
	return BVHOptions{
		MaxDepth:            32,
		MinSliceComplexity:  8,
		SplitOffsets:        []float64{0, 0.25, 0.5, 0.75, 1},
		MaxCandidateObjects: 32,
		Workers:             runtime.NumCPU(),
	}
}

func (opts BVHOptions) withDefaults() BVHOptions {
	defaults := DefaultBVHOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if opts.MinSliceComplexity <= 0 {
		opts.MinSliceComplexity = defaults.MinSliceComplexity
	}
	if len(opts.SplitOffsets) == 0 {
		opts.SplitOffsets = defaults.SplitOffsets
	}
	if opts.MaxCandidateObjects <= 0 {
		opts.MaxCandidateObjects = defaults.MaxCandidateObjects
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	return opts
}

// BVHNode is a node of the flattened hierarchy. Left and Right index into the
// node arena and are -1 when absent. Leaves holds the geometry attached
// directly to this node.
type BVHNode struct {
	Bounds      core.AABB
	Mask        core.RayMask
	SurfaceArea float64
	Left, Right int32
	Leaves      []core.Geometry
}

// BVHStats summarises a built hierarchy
type BVHStats struct {
	Geometries int // Geometry passed to the builder
	Nodes      int
	LeafNodes  int // Nodes with geometry attached
	LeafRefs   int // Total geometry references over all nodes
	Sliced     int // Straddling geometry that was cut in two
	MaxDepth   int
	BuildTime  time.Duration
}

// BVH is a bounding volume hierarchy over scene geometry stored as a node
// arena. It is read-only once built and safe for concurrent queries.
type BVH struct {
	nodes []BVHNode
	stats BVHStats
}

// buildNode is the pointer tree produced by the concurrent build before it is
// flattened into the arena
type buildNode struct {
	bounds      core.AABB
	mask        core.RayMask
	area        float64
	left, right *buildNode
	leaves      []core.Geometry
}

type bvhBuilder struct {
	opts   BVHOptions
	sem    *semaphore.Weighted
	sliced atomic.Int64
	logger log.Logger
}

// NewBVH builds a hierarchy over geometries. The slice is not retained.
func NewBVH(ctx context.Context, geometries []core.Geometry, opts BVHOptions) (*BVH, error) {
	if len(geometries) == 0 {
		return nil, ErrNoGeometry
	}
	opts = opts.withDefaults()

	b := &bvhBuilder{
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.Workers)),
		logger: log.New("bvh"),
	}

	start := time.Now()
	work := make([]core.Geometry, len(geometries))
	copy(work, geometries)

	root, err := b.build(ctx, work, 0)
	if err != nil {
		return nil, err
	}

	bvh := &BVH{}
	bvh.flatten(root, 0)
	bvh.stats.Geometries = len(geometries)
	bvh.stats.Sliced = int(b.sliced.Load())
	bvh.stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"build time: %s, nodes: %d, leaf nodes: %d, refs: %d, sliced: %d, max depth: %d",
		bvh.stats.BuildTime, bvh.stats.Nodes, bvh.stats.LeafNodes,
		bvh.stats.LeafRefs, bvh.stats.Sliced, bvh.stats.MaxDepth,
	)
	return bvh, nil
}

// build partitions geometries into a subtree rooted at depth
func (b *bvhBuilder) build(ctx context.Context, geometries []core.Geometry, depth int) (*buildNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := &buildNode{bounds: core.EmptyAABB()}
	for _, g := range geometries {
		node.bounds = node.bounds.Union(g.BoundingBox())
		node.mask |= g.RayMask()
		node.area += g.SurfaceArea()
	}

	if depth >= b.opts.MaxDepth || !b.divisible(geometries) {
		node.leaves = geometries
		return node, nil
	}

	// Unbounded geometry straddles every split and stays at the node
	var finite []core.Geometry
	for _, g := range geometries {
		if g.BoundingBox().IsInfinite() {
			node.leaves = append(node.leaves, g)
		} else {
			finite = append(finite, g)
		}
	}

	axis, position, ok := b.chooseSplit(finite, depth)
	if !ok {
		node.leaves = geometries
		return node, nil
	}

	left, right, straddling := b.partition(finite, node.bounds, axis, position)
	if len(left) == 0 || len(right) == 0 {
		// Degenerate split: stop here rather than recurse on the same set
		node.leaves = geometries
		return node, nil
	}
	node.leaves = append(node.leaves, straddling...)

	if err := b.buildChildren(ctx, node, left, right, depth); err != nil {
		return nil, err
	}
	return node, nil
}

// buildChildren builds both subtrees, handing the left one to another
// goroutine when a worker slot is free
func (b *bvhBuilder) buildChildren(ctx context.Context, node *buildNode, left, right []core.Geometry, depth int) error {
	if !b.sem.TryAcquire(1) {
		var err error
		if node.left, err = b.build(ctx, left, depth+1); err != nil {
			return err
		}
		node.right, err = b.build(ctx, right, depth+1)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer b.sem.Release(1)
		var err error
		node.left, err = b.build(gctx, left, depth+1)
		return err
	})
	g.Go(func() error {
		var err error
		node.right, err = b.build(gctx, right, depth+1)
		return err
	})
	return g.Wait()
}

// divisible reports whether splitting geometries can make progress
func (b *bvhBuilder) divisible(geometries []core.Geometry) bool {
	if len(geometries) > 1 {
		return true
	}
	return b.sliceable(geometries[0])
}

// chooseSplit scores candidate planes on every axis and returns the best one.
// The score adds the fraction of objects straddling the plane, the surface
// area imbalance between the two sides and a penalty when a side is empty. A
// small bias cycling with depth breaks ties between axes.
func (b *bvhBuilder) chooseSplit(geometries []core.Geometry, depth int) (axis int, position float64, ok bool) {
	if len(geometries) == 0 {
		return 0, 0, false
	}

	bestScore := math.Inf(1)
	stride := max(1, len(geometries)/b.opts.MaxCandidateObjects)

	for a := 0; a < 3; a++ {
		bias := 1e-3 * float64((a-depth%3+3)%3)
		for i := 0; i < len(geometries); i += stride {
			box := geometries[i].BoundingBox()
			lo, hi := box.Min.Axis(a), box.Max.Axis(a)
			for _, offset := range b.opts.SplitOffsets {
				candidate := lo + offset*(hi-lo)
				score := b.scoreSplit(geometries, a, candidate) + bias
				if score < bestScore {
					bestScore, axis, position, ok = score, a, candidate, true
				}
			}
		}
	}
	return axis, position, ok
}

func (b *bvhBuilder) scoreSplit(geometries []core.Geometry, axis int, position float64) float64 {
	var leftCount, rightCount, straddleCount int
	var leftArea, rightArea float64

	for _, g := range geometries {
		box := g.BoundingBox()
		lo, hi := box.Min.Axis(axis), box.Max.Axis(axis)
		switch {
		case hi <= position:
			leftCount++
			leftArea += g.SurfaceArea()
		case lo >= position:
			rightCount++
			rightArea += g.SurfaceArea()
		case b.sliceable(g):
			// Cut in two, each side gets the share of area on its side
			fraction := (position - lo) / (hi - lo)
			leftCount++
			rightCount++
			leftArea += g.SurfaceArea() * fraction
			rightArea += g.SurfaceArea() * (1 - fraction)
		default:
			straddleCount++
		}
	}

	score := float64(straddleCount) / float64(len(geometries))
	if total := leftArea + rightArea; total > 0 {
		score += math.Abs(leftArea-rightArea) / total
	}
	if leftCount == 0 || rightCount == 0 {
		score++
	}
	return score
}

func (b *bvhBuilder) sliceable(g core.Geometry) bool {
	s, ok := g.(Slicer)
	return ok && s.Complexity() >= b.opts.MinSliceComplexity
}

// partition assigns geometries to the two sides of the split. Straddling
// slicers with enough complexity are cut in two; other straddlers are kept
// at the node.
func (b *bvhBuilder) partition(geometries []core.Geometry, bounds core.AABB, axis int, position float64) (left, right, straddling []core.Geometry) {
	leftBox, rightBox := bounds.Split(axis, position)

	for _, g := range geometries {
		box := g.BoundingBox()
		switch {
		case box.Max.Axis(axis) <= position:
			left = append(left, g)
		case box.Min.Axis(axis) >= position:
			right = append(right, g)
		default:
			if !b.sliceable(g) {
				straddling = append(straddling, g)
				continue
			}
			leftPiece, rightPiece, ok := b.slice(g.(Slicer), leftBox, rightBox)
			if !ok {
				straddling = append(straddling, g)
				continue
			}
			if leftPiece != nil {
				left = append(left, leftPiece)
			}
			if rightPiece != nil {
				right = append(right, rightPiece)
			}
		}
	}
	return left, right, straddling
}

// slice cuts s into the parts inside leftBox and rightBox. A cut is only
// accepted when both parts are strictly simpler than s and clipping added at
// most half of s's complexity again; otherwise s stays at the node. This
// bounds how often a piece can be cut again further down the tree.
func (b *bvhBuilder) slice(s Slicer, leftBox, rightBox core.AABB) (left, right core.Geometry, ok bool) {
	left, hasLeft := s.Slice(leftBox)
	right, hasRight := s.Slice(rightBox)
	total := s.Complexity()

	switch {
	case hasLeft && hasRight:
		l, r := complexity(left), complexity(right)
		if l >= total || r >= total || l+r > total+total/2 {
			return nil, nil, false
		}
		b.sliced.Add(1)
		return left, right, true
	case hasLeft:
		return left, nil, complexity(left) <= total
	case hasRight:
		return nil, right, complexity(right) <= total
	}
	return nil, nil, false
}

func complexity(g core.Geometry) int {
	if s, ok := g.(Slicer); ok {
		return s.Complexity()
	}
	return 1
}

// flatten appends node and its subtree to the arena and returns its index
func (bvh *BVH) flatten(node *buildNode, depth int) int32 {
	index := int32(len(bvh.nodes))
	bvh.nodes = append(bvh.nodes, BVHNode{
		Bounds:      node.bounds,
		Mask:        node.mask,
		SurfaceArea: node.area,
		Left:        -1,
		Right:       -1,
		Leaves:      node.leaves,
	})

	bvh.stats.Nodes++
	bvh.stats.MaxDepth = max(bvh.stats.MaxDepth, depth)
	if len(node.leaves) > 0 {
		bvh.stats.LeafNodes++
		bvh.stats.LeafRefs += len(node.leaves)
	}

	if node.left != nil {
		left := bvh.flatten(node.left, depth+1)
		bvh.nodes[index].Left = left
	}
	if node.right != nil {
		right := bvh.flatten(node.right, depth+1)
		bvh.nodes[index].Right = right
	}
	return index
}

// Nodes returns the node arena; the root is at index 0
func (bvh *BVH) Nodes() []BVHNode {
	return bvh.nodes
}

// Stats returns build statistics
func (bvh *BVH) Stats() BVHStats {
	return bvh.stats
}

// BoundingBox returns the bounds of everything in the hierarchy
func (bvh *BVH) BoundingBox() core.AABB {
	return bvh.nodes[0].Bounds
}

// leafCandidate is a leaf whose bounds the ray enters at near
type leafCandidate struct {
	geometry core.Geometry
	near     float64
}

// Intersect returns the nearest hit with t in [tMin, tMax] among geometry
// whose mask shares a bit with mask
func (bvh *BVH) Intersect(ray core.Ray, mask core.RayMask, tMin, tMax float64) (core.Intersection, bool) {
	var best core.Intersection
	found := false
	bvh.intersectNode(0, ray, mask, tMin, &tMax, &best, &found)
	return best, found
}

func (bvh *BVH) intersectNode(index int32, ray core.Ray, mask core.RayMask, tMin float64, tMax *float64, best *core.Intersection, found *bool) {
	node := &bvh.nodes[index]
	if !node.Mask.Has(mask) || !node.Bounds.Hit(ray, tMin, *tMax) {
		return
	}

	if len(node.Leaves) > 0 {
		var buf [16]leafCandidate
		candidates := buf[:0]
		for _, g := range node.Leaves {
			if !g.RayMask().Has(mask) {
				continue
			}
			if near, _, ok := g.BoundingBox().Intersect(ray, tMin, *tMax); ok {
				candidates = insertCandidate(candidates, leafCandidate{geometry: g, near: near})
			}
		}

		for _, c := range candidates {
			if c.near > *tMax {
				break
			}
			if hit, ok := c.geometry.Intersect(ray, tMin, *tMax); ok {
				*best = hit
				*found = true
				*tMax = hit.T
			}
		}
	}

	first, second := node.Left, node.Right
	if first >= 0 && second >= 0 {
		nearFirst, _, _ := bvh.nodes[first].Bounds.Intersect(ray, tMin, *tMax)
		nearSecond, _, _ := bvh.nodes[second].Bounds.Intersect(ray, tMin, *tMax)
		if nearSecond < nearFirst {
			first, second = second, first
		}
	}
	if first >= 0 {
		bvh.intersectNode(first, ray, mask, tMin, tMax, best, found)
	}
	if second >= 0 {
		bvh.intersectNode(second, ray, mask, tMin, tMax, best, found)
	}
}

// insertCandidate keeps candidates sorted by entry distance
func insertCandidate(candidates []leafCandidate, c leafCandidate) []leafCandidate {
	candidates = append(candidates, c)
	for i := len(candidates) - 1; i > 0 && candidates[i].near < candidates[i-1].near; i-- {
		candidates[i], candidates[i-1] = candidates[i-1], candidates[i]
	}
	return candidates
}
