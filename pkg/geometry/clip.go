package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Vertex is a mesh vertex with its shading attributes
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	Tangent  core.Vec3
	UV       core.Vec2
}

// Lerp interpolates every attribute of v towards other
func (v Vertex) Lerp(other Vertex, t float64) Vertex {
	return Vertex{
		Position: v.Position.Lerp(other.Position, t),
		Normal:   v.Normal.Lerp(other.Normal, t),
		Tangent:  v.Tangent.Lerp(other.Tangent, t),
		UV:       v.UV.Lerp(other.UV, t),
	}
}

// Face is a triangle of three vertices
type Face [3]Vertex

// ClipPolygon clips a convex polygon against each plane in turn
// (Sutherland-Hodgman), keeping the part in front of every plane. Attributes
// of new vertices are interpolated along the clipped edge. The input is not
// modified.
func ClipPolygon(polygon []Vertex, planes []core.Plane) []Vertex {
	for _, plane := range planes {
		if len(polygon) == 0 {
			return nil
		}

		clipped := make([]Vertex, 0, len(polygon)+1)
		prev := polygon[len(polygon)-1]
		prevDist := plane.Distance(prev.Position)

		for _, cur := range polygon {
			curDist := plane.Distance(cur.Position)
			switch {
			case prevDist >= 0 && curDist >= 0:
				clipped = append(clipped, cur)
			case prevDist >= 0 && curDist < 0:
				// A vertex on the plane was already emitted
				if prevDist > 0 {
					clipped = append(clipped, prev.Lerp(cur, core.SegmentParameter(prevDist, curDist)))
				}
			case prevDist < 0 && curDist >= 0:
				if curDist > 0 {
					clipped = append(clipped, prev.Lerp(cur, core.SegmentParameter(prevDist, curDist)))
				}
				clipped = append(clipped, cur)
			}
			prev, prevDist = cur, curDist
		}
		polygon = clipped
	}

	if len(polygon) < 3 {
		return nil
	}
	return polygon
}

// FanTriangulate splits a convex polygon into a fan of triangles around its
// first vertex
func FanTriangulate(polygon []Vertex) []Face {
	if len(polygon) < 3 {
		return nil
	}
	faces := make([]Face, 0, len(polygon)-2)
	for i := 1; i+1 < len(polygon); i++ {
		faces = append(faces, Face{polygon[0], polygon[i], polygon[i+1]})
	}
	return faces
}

// ClipFace clips face to box. A face entirely inside the box is returned
// unchanged and a face entirely outside yields no faces.
func ClipFace(face Face, box core.AABB) []Face {
	return FanTriangulate(ClipPolygon(face[:], box.Planes()))
}
