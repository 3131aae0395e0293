package input

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Config tunes how raw readings become tilt.
type Config struct {
	// Gravity is the acceleration reading that maps to a full tilt of 1.
	Gravity float64 `yaml:"gravity"`
	// Deadzone snaps small tilts to zero.
	Deadzone float64 `yaml:"deadzone"`
	// KeyTilt is the tilt produced by a held arrow key.
	KeyTilt float64 `yaml:"key_tilt"`
}

func DefaultConfig() Config {
	return Config{Gravity: 9.8, Deadzone: 0.05, KeyTilt: 0.5}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Gravity <= 0 {
		c.Gravity = d.Gravity
	}
	if c.Deadzone < 0 {
		c.Deadzone = 0
	}
	if c.KeyTilt == 0 {
		c.KeyTilt = d.KeyTilt
	}
	return c
}

// Source supplies the tilt vector read once per admitted tick. Both axes
// are in [-1, 1].
type Source interface {
	Tilt() cp.Vector
}

// Acceleration is an accelerometer reading including gravity.
type Acceleration struct {
	X, Y, Z float64
}

// Keys is the arrow key state used to emulate tilt on desktop.
type Keys struct {
	Up, Down, Left, Right bool
}

// State turns device motion and arrow keys into tilt.
type State struct {
	cfg    Config
	raw    Acceleration
	device cp.Vector
	keys   Keys
}

func NewState(cfg Config) *State {
	return &State{cfg: cfg.WithDefaults()}
}

// HandleMotion records an accelerometer reading. X is mirrored so tilting
// the device right pushes toward +X on screen.
func (s *State) HandleMotion(acc Acceleration) {
	s.raw = acc
	s.device = cp.Vector{
		X: s.deadzone(clampUnit(-acc.X / s.cfg.Gravity)),
		Y: s.deadzone(clampUnit(acc.Y / s.cfg.Gravity)),
	}
}

// SetKeys replaces the held arrow keys.
func (s *State) SetKeys(k Keys) {
	s.keys = k
}

// Raw returns the last accelerometer reading.
func (s *State) Raw() Acceleration {
	return s.raw
}

// Tilt returns the device tilt. Axes the device leaves at zero fall back to
// the arrow keys.
func (s *State) Tilt() cp.Vector {
	t := s.device
	if t.X == 0 {
		t.X = (b2f(s.keys.Right) - b2f(s.keys.Left)) * s.cfg.KeyTilt
	}
	if t.Y == 0 {
		t.Y = (b2f(s.keys.Down) - b2f(s.keys.Up)) * s.cfg.KeyTilt
	}
	return t
}

// Degrees converts a tilt to the device angle on each axis, in degrees.
func Degrees(t cp.Vector) cp.Vector {
	return cp.Vector{
		X: math.Asin(clampUnit(t.X)) * 180 / math.Pi,
		Y: math.Asin(clampUnit(t.Y)) * 180 / math.Pi,
	}
}

func (s *State) deadzone(v float64) float64 {
	if math.Abs(v) < s.cfg.Deadzone {
		return 0
	}
	return v
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
