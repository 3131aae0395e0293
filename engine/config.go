package engine

import (
	"github.com/milk9111/tiltengine/input"
	"github.com/milk9111/tiltengine/prefabs"
)

const (
	DefaultFPS = 120
	// CollisionPasses is the number of detection and resolution passes per
	// admitted frame, so that overlaps uncovered by one pass (stacks) are
	// settled within the same frame.
	CollisionPasses = 4
)

// Config holds the tunables read from engine.yaml.
type Config struct {
	FPS   int          `yaml:"fps"`
	Input input.Config `yaml:"input"`
}

func DefaultConfig() Config {
	return Config{FPS: DefaultFPS, Input: input.DefaultConfig()}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	c.Input = c.Input.WithDefaults()
	return c
}

// LoadConfig reads a prefab config file over DefaultConfig, so keys the file
// leaves out keep their defaults.
func LoadConfig(name string) (Config, error) {
	cfg := DefaultConfig()
	if err := prefabs.LoadSpecInto(name, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg.WithDefaults(), nil
}
