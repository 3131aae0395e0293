package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tiltengine/common"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	KindCircle ShapeKind = iota
	KindRect

	numShapeKinds
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	default:
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
}

// Shape is a collider outline centered on its entity's position. Only the
// fields of the active Kind are meaningful.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
}

func NewCircle(radius float64) (Shape, error) {
	if radius <= 0 || !common.Finite(radius) {
		return Shape{}, fmt.Errorf("%w: circle radius %v", ErrInvalidShape, radius)
	}
	return Shape{Kind: KindCircle, Radius: radius}, nil
}

func NewRect(width, height float64) (Shape, error) {
	if width <= 0 || height <= 0 || !common.Finite(width) || !common.Finite(height) {
		return Shape{}, fmt.Errorf("%w: rect %vx%v", ErrInvalidShape, width, height)
	}
	return Shape{Kind: KindRect, Width: width, Height: height}, nil
}

// Bounds returns the axis-aligned box of the shape placed at pos.
func (s Shape) Bounds(pos cp.Vector) cp.BB {
	if s.Kind == KindCircle {
		return common.RectBB(pos, 2*s.Radius, 2*s.Radius)
	}
	return common.RectBB(pos, s.Width, s.Height)
}
