package geometry

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// MeshSource produces the triangles of a mesh
type MeshSource interface {
	Faces() ([]Face, error)
}

// Slicer is geometry the BVH builder may cut into pieces when it straddles a
// split plane
type Slicer interface {
	core.Geometry

	// Complexity is the amount of internal detail, the face count for meshes
	Complexity() int

	// Slice returns the part of the geometry inside the world-space box, or
	// false when nothing remains
	Slice(box core.AABB) (core.Geometry, bool)
}

// FaceList is a MeshSource backed by a fixed set of faces
type FaceList []Face

// Faces returns the list itself
func (l FaceList) Faces() ([]Face, error) {
	return l, nil
}

// Mesh is a triangle soup sharing one transform and material
type Mesh struct {
	Object
	faces []Face
}

// NewMesh creates a mesh from the faces of source, placed by transform
func NewMesh(source MeshSource, transform core.Transform, material core.Material) (*Mesh, error) {
	faces, err := source.Faces()
	if err != nil {
		return nil, fmt.Errorf("reading mesh faces: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrEmptyMesh
	}
	return newMesh(faces, transform, material), nil
}

func newMesh(faces []Face, transform core.Transform, material core.Material) *Mesh {
	m := &Mesh{faces: faces}
	m.Object = newObject(m, transform, material)
	return m
}

// Faces returns the local-space faces of the mesh
func (m *Mesh) Faces() ([]Face, error) {
	return m.faces, nil
}

func (m *Mesh) worldBounds(a core.Affine) core.AABB {
	return faceBounds(a, m.faces)
}

func (m *Mesh) worldArea(a core.Affine) float64 {
	var area float64
	for i := range m.faces {
		area += faceArea(a, &m.faces[i])
	}
	return area
}

// Complexity returns the number of faces
func (m *Mesh) Complexity() int {
	return len(m.faces)
}

// Slice clips every face against box and returns the remaining faces as a
// new mesh with the same transform, material and mask
func (m *Mesh) Slice(box core.AABB) (core.Geometry, bool) {
	worldPlanes := box.Planes()
	planes := make([]core.Plane, len(worldPlanes))
	for i, p := range worldPlanes {
		planes[i] = m.affine.LocalPlane(p)
	}

	var faces []Face
	for i := range m.faces {
		faces = append(faces, FanTriangulate(ClipPolygon(m.faces[i][:], planes))...)
	}
	if len(faces) == 0 {
		return nil, false
	}

	piece := newMesh(faces, m.transform, m.Material)
	piece.Mask = m.Mask
	// Clipped vertices may land a rounding error outside the box
	piece.bounds = piece.bounds.Intersection(box)
	if !piece.bounds.IsValid() {
		return nil, false
	}
	return piece, true
}

// Intersect returns the nearest face hit with t in [tMin, tMax]
func (m *Mesh) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	local := m.affine.LocalRay(ray)

	var best localHit
	found := false
	for i := range m.faces {
		if h, ok := intersectFace(&m.faces[i], local, tMin, tMax); ok {
			best, found = h, true
			tMax = h.t
		}
	}
	if !found {
		return core.Intersection{}, false
	}
	return m.toWorld(ray, best, m), true
}

// IntersectAll appends every face hit in [tMin, tMax], sorted by t
func (m *Mesh) IntersectAll(ray core.Ray, tMin, tMax float64, hits []core.Intersection) []core.Intersection {
	local := m.affine.LocalRay(ray)

	var found []localHit
	for i := range m.faces {
		if h, ok := intersectFace(&m.faces[i], local, tMin, tMax); ok {
			found = append(found, h)
		}
	}
	slices.SortFunc(found, func(a, b localHit) int {
		return cmp.Compare(a.t, b.t)
	})
	return m.appendWorld(ray, found, tMin, tMax, m, hits)
}

// HeightfieldSource generates a grid mesh over [-1, 1]² in the XZ plane with
// vertex heights taken from Height
type HeightfieldSource struct {
	Resolution int
	Height     func(x, z float64) float64
}

// Faces builds two faces per grid cell with normals from central differences
func (h HeightfieldSource) Faces() ([]Face, error) {
	if h.Resolution < 1 {
		return nil, fmt.Errorf("heightfield resolution must be positive, got %d", h.Resolution)
	}
	if h.Height == nil {
		return nil, fmt.Errorf("heightfield has no height function")
	}

	n := h.Resolution
	step := 2.0 / float64(n)
	vertex := func(i, j int) Vertex {
		x := -1 + float64(i)*step
		z := -1 + float64(j)*step
		dx := (h.Height(x+step/2, z) - h.Height(x-step/2, z)) / step
		dz := (h.Height(x, z+step/2) - h.Height(x, z-step/2)) / step
		return Vertex{
			Position: core.NewVec3(x, h.Height(x, z), z),
			Normal:   core.NewVec3(-dx, 1, -dz).Normalize(),
			Tangent:  core.NewVec3(1, dx, 0).Normalize(),
			UV:       core.NewVec2(float64(i)/float64(n), float64(j)/float64(n)),
		}
	}

	faces := make([]Face, 0, 2*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v00, v10 := vertex(i, j), vertex(i+1, j)
			v01, v11 := vertex(i, j+1), vertex(i+1, j+1)
			faces = append(faces, Face{v00, v01, v10}, Face{v10, v01, v11})
		}
	}
	return faces, nil
}
