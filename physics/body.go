package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tiltengine/common"
)

var (
	ErrInvalidMass  = errors.New("physics: mass must be positive and finite")
	ErrInvalidShape = errors.New("physics: shape size must be positive and finite")
)

// BodyOptions configures a Body. Zero values are not defaults; use
// DefaultBodyOptions and override what differs.
type BodyOptions struct {
	Mass       float64
	Friction   float64
	Bounciness float64
	Static     bool
}

// DefaultBodyOptions returns the options used when a scene omits them.
func DefaultBodyOptions() BodyOptions {
	return BodyOptions{
		Mass:       10,
		Friction:   0.98,
		Bounciness: 0.5,
	}
}

// Body holds the linear motion state of one entity. Position lives on the
// owning entity and is passed in by pointer.
type Body struct {
	Mass       float64
	Friction   float64
	Bounciness float64
	Static     bool
	Velocity   cp.Vector
}

// NewBody builds a body, clamping friction and bounciness into [0,1].
// A non-static body must have a positive, finite mass.
func NewBody(opts BodyOptions) (*Body, error) {
	if !opts.Static && (opts.Mass <= 0 || !common.Finite(opts.Mass)) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, opts.Mass)
	}
	return &Body{
		Mass:       opts.Mass,
		Friction:   common.Clamp(opts.Friction, 0, 1),
		Bounciness: common.Clamp(opts.Bounciness, 0, 1),
		Static:     opts.Static,
	}, nil
}

// InvMass is 0 for static bodies.
func (b *Body) InvMass() float64 {
	if b == nil || b.Static || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// Integrate damps the velocity by Friction once per call, then moves pos by
// Velocity*dt. Static bodies are left untouched. Friction is applied per
// call rather than per second, so callers should integrate at a steady rate.
func (b *Body) Integrate(pos *cp.Vector, dt float64) {
	if b == nil || b.Static || pos == nil {
		return
	}
	b.Velocity.X *= b.Friction
	b.Velocity.Y *= b.Friction

	pos.X += b.Velocity.X * dt
	pos.Y += b.Velocity.Y * dt
}
