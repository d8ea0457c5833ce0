package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that acts as the identity for Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Splat(inf), Max: Splat(-inf)}
}

// InfiniteAABB returns a box covering all of space. Unbounded primitives such
// as infinite planes report it as their bounds.
func InfiniteAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Splat(-inf), Max: Splat(inf)}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		box.Min = box.Min.Min(point)
		box.Max = box.Max.Max(point)
	}
	return box
}

// Intersect runs the slab test against the box using the ray's cached inverse
// direction and sign. It returns the parametric entry and exit distances of the
// ray; the test fails when the interval is empty or lies outside
// [minDelta, maxDelta].
func (aabb AABB) Intersect(ray Ray, minDelta, maxDelta float64) (tNear, tFar float64, ok bool) {
	bounds := [2]Vec3{aabb.Min, aabb.Max}
	tNear = math.Inf(-1)
	tFar = math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		inv := ray.InvDirection.Axis(axis)
		sign := ray.Sign[axis]

		axisNear := (bounds[sign].Axis(axis) - origin) * inv
		axisFar := (bounds[1-sign].Axis(axis) - origin) * inv

		if axisNear > tFar || tNear > axisFar {
			return 0, 0, false
		}
		// NaN (origin on a slab of a parallel ray) fails both comparisons and
		// leaves the interval unchanged
		if axisNear > tNear {
			tNear = axisNear
		}
		if axisFar < tFar {
			tFar = axisFar
		}
	}

	if tNear > tFar || tFar < minDelta || tNear > maxDelta {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// Hit tests if a ray intersects with this AABB within [tMin, tMax]
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	_, _, ok := aabb.Intersect(ray, tMin, tMax)
	return ok
}

// ClipLine clips the segment a-b against the box. It returns the clipped
// end points, or zero vectors and false when the segment misses the box.
func (aabb AABB) ClipLine(a, b Vec3) (Vec3, Vec3, bool) {
	segment := b.Subtract(a)
	length := segment.Length()
	if length == 0 {
		if aabb.Contains(a) {
			return a, a, true
		}
		return Vec3{}, Vec3{}, false
	}

	ray := NewRay(a, segment)
	tNear, tFar, ok := aabb.Intersect(ray, 0, length)
	if !ok {
		return Vec3{}, Vec3{}, false
	}
	tNear = math.Max(tNear, 0)
	tFar = math.Min(tFar, length)
	return ray.At(tNear), ray.At(tFar), true
}

// Contains reports whether point lies inside or on the box
func (aabb AABB) Contains(point Vec3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// ContainsWithin reports whether point lies inside the box grown by tolerance
func (aabb AABB) ContainsWithin(point Vec3, tolerance float64) bool {
	return aabb.Expand(tolerance).Contains(point)
}

// ContainsBox reports whether other lies entirely inside the box
func (aabb AABB) ContainsBox(other AABB) bool {
	return aabb.Contains(other.Min) && aabb.Contains(other.Max)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Intersection returns the overlap of the two boxes. The result is not valid
// when the boxes are disjoint.
func (aabb AABB) Intersection(other AABB) AABB {
	return AABB{Min: aabb.Min.Max(other.Min), Max: aabb.Max.Min(other.Max)}
}

// Difference trims the box by other. An axis is only trimmed when other spans
// this box completely on the two remaining axes, so the result is a
// conservative bound of the set difference.
func (aabb AABB) Difference(other AABB) AABB {
	result := aabb
	for axis := 0; axis < 3; axis++ {
		spans := true
		for o := 0; o < 3; o++ {
			if o == axis {
				continue
			}
			if other.Min.Axis(o) > aabb.Min.Axis(o) || other.Max.Axis(o) < aabb.Max.Axis(o) {
				spans = false
				break
			}
		}
		if !spans {
			continue
		}

		lo, hi := result.Min.Axis(axis), result.Max.Axis(axis)
		oLo, oHi := other.Min.Axis(axis), other.Max.Axis(axis)
		if oLo <= lo && oHi > lo {
			lo = math.Min(oHi, hi)
		}
		if oHi >= hi && oLo < hi {
			hi = math.Max(oLo, lo)
		}
		result.Min = result.Min.WithAxis(axis, lo)
		result.Max = result.Max.WithAxis(axis, hi)
	}
	return result
}

// Split clips the box at position along axis and returns the two halves
func (aabb AABB) Split(axis int, position float64) (left, right AABB) {
	left, right = aabb, aabb
	left.Max = left.Max.WithAxis(axis, math.Min(position, aabb.Max.Axis(axis)))
	right.Min = right.Min.WithAxis(axis, math.Max(position, aabb.Min.Axis(axis)))
	return left, right
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	if aabb.IsInfinite() {
		return math.Inf(1)
	}
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsInfinite reports whether any bound of the box is infinite
func (aabb AABB) IsInfinite() bool {
	for axis := 0; axis < 3; axis++ {
		if math.IsInf(aabb.Min.Axis(axis), 0) || math.IsInf(aabb.Max.Axis(axis), 0) {
			return true
		}
	}
	return false
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := Splat(amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

// Corners returns the eight corners of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := range corners {
		corner := aabb.Min
		if i&1 != 0 {
			corner.X = aabb.Max.X
		}
		if i&2 != 0 {
			corner.Y = aabb.Max.Y
		}
		if i&4 != 0 {
			corner.Z = aabb.Max.Z
		}
		corners[i] = corner
	}
	return corners
}

// Planes returns the six inward-facing half-space planes bounding the box.
// Infinite bounds are skipped.
func (aabb AABB) Planes() []Plane {
	planes := make([]Plane, 0, 6)
	for axis := 0; axis < 3; axis++ {
		normal := Vec3{}.WithAxis(axis, 1)
		if lo := aabb.Min.Axis(axis); !math.IsInf(lo, 0) {
			planes = append(planes, Plane{Normal: normal, Offset: lo})
		}
		if hi := aabb.Max.Axis(axis); !math.IsInf(hi, 0) {
			planes = append(planes, Plane{Normal: normal.Negate(), Offset: -hi})
		}
	}
	return planes
}
