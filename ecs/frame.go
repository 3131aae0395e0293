package ecs

import "github.com/jakecoffman/cp"

// Size is the drawable area handed to hooks and renderers.
type Size struct {
	Width, Height float64
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Frame carries the per-tick inputs shared by every system.
type Frame struct {
	// DT is the wall time in seconds since the previous admitted tick.
	DT     float64
	Tilt   cp.Vector
	Screen Size
}
