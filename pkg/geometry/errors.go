package geometry

import "errors"

var (
	// ErrNoGeometry is returned when a BVH is requested for an empty geometry list
	ErrNoGeometry = errors.New("geometry: at least one geometry is required")

	// ErrEmptyCSGOperand is returned when a CSG node is given a nil operand
	ErrEmptyCSGOperand = errors.New("geometry: csg operands must not be nil")

	// ErrEmptyMesh is returned when a mesh source produces no faces
	ErrEmptyMesh = errors.New("geometry: mesh source produced no faces")
)
