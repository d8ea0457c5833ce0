package renderer

import "errors"

var (
	// ErrInvalidSink is returned when the sink dimensions do not match the render size
	ErrInvalidSink = errors.New("renderer: sink size does not match render size")

	// ErrInterrupted is returned when a render is cancelled before it completes
	ErrInterrupted = errors.New("renderer: render interrupted")
)
