package engine

import (
	"testing"

	"github.com/milk9111/tiltengine/input"
)

func TestConfigWithDefaults(t *testing.T) {
	cases := []struct {
		name string
		in   Config
		want Config
	}{
		// An explicit zero deadzone is kept.
		{"zero", Config{}, Config{FPS: DefaultFPS, Input: input.Config{Gravity: 9.8, Deadzone: 0, KeyTilt: 0.5}}},
		{"negative_fps", Config{FPS: -5, Input: input.DefaultConfig()}, DefaultConfig()},
		{"custom_fps", Config{FPS: 30}, Config{FPS: 30, Input: input.Config{Gravity: 9.8, Deadzone: 0, KeyTilt: 0.5}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in.WithDefaults()
			if got != c.want {
				t.Fatalf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestLoadBundledConfig(t *testing.T) {
	cfg, err := LoadConfig("engine.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("bundled config %+v differs from defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadMissingConfigFallsBack(t *testing.T) {
	cfg, err := LoadConfig("missing.yaml")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if cfg != DefaultConfig() {
		t.Fatalf("fallback = %+v", cfg)
	}
}
