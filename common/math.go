package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b cp.Vector) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Normalize returns v scaled to unit length. ok is false for a zero vector,
// in which case the zero vector is returned instead of NaNs.
func Normalize(v cp.Vector) (n cp.Vector, ok bool) {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return cp.Vector{}, false
	}
	return cp.Vector{X: v.X / l, Y: v.Y / l}, true
}

// RectBB returns the axis-aligned box of a w*h rectangle centered on c.
// B holds the smallest Y and T the largest, so with screen coordinates B is
// the visual top edge.
func RectBB(c cp.Vector, w, h float64) cp.BB {
	return cp.BB{
		L: c.X - w/2,
		B: c.Y - h/2,
		R: c.X + w/2,
		T: c.Y + h/2,
	}
}

// ClampToBB returns the point of bb closest to p.
func ClampToBB(p cp.Vector, bb cp.BB) cp.Vector {
	return cp.Vector{
		X: Clamp(p.X, bb.L, bb.R),
		Y: Clamp(p.Y, bb.B, bb.T),
	}
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
