package input

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestHandleMotion(t *testing.T) {
	cases := []struct {
		name string
		acc  Acceleration
		want cp.Vector
	}{
		{"flat", Acceleration{Z: 9.8}, cp.Vector{}},
		{"deadzone", Acceleration{X: 0.4, Y: -0.3}, cp.Vector{}},
		{"half_tilt", Acceleration{X: 4.9, Y: 4.9}, cp.Vector{X: -0.5, Y: 0.5}},
		{"over_gravity_clamped", Acceleration{X: -20, Y: 30}, cp.Vector{X: 1, Y: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewState(DefaultConfig())
			s.HandleMotion(c.acc)
			got := s.Tilt()
			if math.Abs(got.X-c.want.X) > 1e-9 || math.Abs(got.Y-c.want.Y) > 1e-9 {
				t.Fatalf("tilt = %v, want %v", got, c.want)
			}
			if s.Raw() != c.acc {
				t.Fatalf("raw reading not kept")
			}
		})
	}
}

func TestKeysFillIdleAxes(t *testing.T) {
	s := NewState(Config{})
	s.SetKeys(Keys{Right: true, Up: true})
	if got := s.Tilt(); got != (cp.Vector{X: 0.5, Y: -0.5}) {
		t.Fatalf("key tilt = %v", got)
	}

	// Releasing keys returns to rest.
	s.SetKeys(Keys{})
	if got := s.Tilt(); got != (cp.Vector{}) {
		t.Fatalf("tilt after release = %v", got)
	}

	// The device wins on axes it drives.
	s.HandleMotion(Acceleration{X: -4.9})
	s.SetKeys(Keys{Left: true, Down: true})
	if got := s.Tilt(); got != (cp.Vector{X: 0.5, Y: 0.5}) {
		t.Fatalf("mixed tilt = %v", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{Deadzone: -1}.WithDefaults()
	if c.Gravity != 9.8 || c.Deadzone != 0 || c.KeyTilt != 0.5 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestDegrees(t *testing.T) {
	cases := []struct {
		name string
		tilt cp.Vector
		want cp.Vector
	}{
		{"flat", cp.Vector{}, cp.Vector{}},
		{"half", cp.Vector{X: 0.5, Y: -0.5}, cp.Vector{X: 30, Y: -30}},
		{"upright", cp.Vector{X: 1, Y: -1}, cp.Vector{X: 90, Y: -90}},
		{"clamped", cp.Vector{X: 3}, cp.Vector{X: 90}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Degrees(c.tilt)
			if math.Abs(got.X-c.want.X) > 1e-9 || math.Abs(got.Y-c.want.Y) > 1e-9 {
				t.Fatalf("degrees = %v, want %v", got, c.want)
			}
		})
	}
}
