package geometry

import (
	"cmp"
	"math"
	"slices"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Operation is the boolean operator applied by a CSG node
type Operation int

const (
	OpUnion Operation = iota
	OpDifference
	OpIntersection
)

func (op Operation) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	}
	return "unknown"
}

// CSG combines two solids with a boolean operator. Hits are produced by
// walking the surface crossings of both operands along the ray and tracking
// how deep the ray is inside each of them.
type CSG struct {
	A, B Solid
	Op   Operation
	Mask core.RayMask

	bounds core.AABB
	area   float64
}

// csgEvent is a crossing of one operand's surface
type csgEvent struct {
	hit   core.Intersection
	fromA bool
}

// NewCSG combines a and b with op
func NewCSG(op Operation, a, b Solid) (*CSG, error) {
	if a == nil || b == nil {
		return nil, ErrEmptyCSGOperand
	}

	c := &CSG{A: a, B: b, Op: op, Mask: core.MaskDefault}
	boxA, boxB := a.BoundingBox(), b.BoundingBox()
	switch op {
	case OpUnion:
		c.bounds = boxA.Union(boxB)
		c.area = a.SurfaceArea() + b.SurfaceArea()
	case OpDifference:
		c.bounds = boxA.Difference(boxB)
		c.area = a.SurfaceArea()
	case OpIntersection:
		c.bounds = boxA.Intersection(boxB)
		if !c.bounds.IsValid() {
			c.bounds = core.EmptyAABB()
		}
		c.area = math.Min(a.SurfaceArea(), b.SurfaceArea())
	}
	return c, nil
}

// NewUnion returns the solid covering a or b
func NewUnion(a, b Solid) (*CSG, error) {
	return NewCSG(OpUnion, a, b)
}

// NewDifference returns a with b carved out of it
func NewDifference(a, b Solid) (*CSG, error) {
	return NewCSG(OpDifference, a, b)
}

// NewIntersection returns the solid covered by both a and b
func NewIntersection(a, b Solid) (*CSG, error) {
	return NewCSG(OpIntersection, a, b)
}

// BoundingBox returns the bounds derived from the operands' bounds
func (c *CSG) BoundingBox() core.AABB {
	return c.bounds
}

// SurfaceArea returns an estimate of the combined surface area
func (c *CSG) SurfaceArea() float64 {
	return c.area
}

// RayMask returns the ray types the node takes part in
func (c *CSG) RayMask() core.RayMask {
	return c.Mask
}

// Intersect returns the nearest surface of the combined solid in [tMin, tMax]
func (c *CSG) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	var buf [4]core.Intersection
	hits := c.IntersectAll(ray, tMin, tMax, buf[:0])
	if len(hits) == 0 {
		return core.Intersection{}, false
	}
	return hits[0], true
}

// IntersectAll appends every surface crossing of the combined solid that lies
// in [tMin, tMax]
func (c *CSG) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	if !c.bounds.Hit(ray, tMin, tMax) {
		return hits
	}

	// Operands are queried along the whole line so the depth counters are
	// correct for rays starting inside a solid
	var buf [8]core.Intersection
	all := c.A.IntersectAll(ray, math.Inf(-1), math.Inf(1), buf[:0])
	countA := len(all)
	all = c.B.IntersectAll(ray, math.Inf(-1), math.Inf(1), all)

	events := make([]csgEvent, 0, len(all))
	for i, hit := range all {
		// A grazing touch neither enters nor leaves the solid
		if math.Abs(hit.Ray.Direction.Dot(hit.Normal)) < core.Epsilon {
			continue
		}
		events = append(events, csgEvent{hit: hit, fromA: i < countA})
	}
	slices.SortStableFunc(events, func(a, b csgEvent) int {
		return cmp.Compare(a.hit.T, b.hit.T)
	})

	aDepth := startDepth(events, true)
	bDepth := startDepth(events, false)
	for _, e := range events {
		wasInside := c.inside(aDepth, bDepth)

		delta := -1
		if e.hit.FrontFace() {
			delta = 1
		}
		if e.fromA {
			aDepth += delta
		} else {
			bDepth += delta
		}

		if c.inside(aDepth, bDepth) == wasInside || e.hit.T < tMin || e.hit.T > tMax {
			continue
		}

		hit := e.hit
		if !e.fromA && c.Op == OpDifference {
			// The carved cavity faces into b
			hit.Normal = hit.Normal.Negate()
		}
		hits = append(hits, hit)
	}
	return hits
}

// inside reports whether a point nested aDepth deep in A and bDepth deep in B
// belongs to the combined solid
func (c *CSG) inside(aDepth, bDepth int) bool {
	switch c.Op {
	case OpUnion:
		return aDepth > 0 || bDepth > 0
	case OpDifference:
		return aDepth > 0 && bDepth <= 0
	case OpIntersection:
		return aDepth > 0 && bDepth > 0
	}
	return false
}

// startDepth returns the depth at the start of the line for one operand. Open
// surfaces such as planes are half-spaces, so a line can begin inside them;
// the start depth is chosen so the running depth never drops below zero.
func startDepth(events []csgEvent, fromA bool) int {
	depth, lowest := 0, 0
	for _, e := range events {
		if e.fromA != fromA {
			continue
		}
		if e.hit.FrontFace() {
			depth++
		} else {
			depth--
		}
		lowest = min(lowest, depth)
	}
	return -lowest
}
