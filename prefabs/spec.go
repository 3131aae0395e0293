package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// SceneSpec is a scene file: a named list of entities.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity. Collider, Body and Script are optional.
type EntitySpec struct {
	Name     string         `yaml:"name"`
	Position PositionSpec   `yaml:"position"`
	Collider *ColliderSpec  `yaml:"collider"`
	Body     *BodySpec      `yaml:"body"`
	Script   *ScriptSpec    `yaml:"script"`
	Look     AppearanceSpec `yaml:"appearance"`
	Repeat   *RepeatSpec    `yaml:"repeat"`
}

// PositionSpec places an entity center at (X + RelX*screenW, Y + RelY*screenH).
type PositionSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	RelX float64 `yaml:"rel_x"`
	RelY float64 `yaml:"rel_y"`
}

// ColliderSpec sizes may also be given as fractions of the screen.
type ColliderSpec struct {
	Shape     string  `yaml:"shape"`
	Radius    float64 `yaml:"radius"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	RelWidth  float64 `yaml:"rel_width"`
	RelHeight float64 `yaml:"rel_height"`
}

// BodySpec leaves nil fields at the physics defaults.
type BodySpec struct {
	Mass       *float64 `yaml:"mass"`
	Friction   *float64 `yaml:"friction"`
	Bounciness *float64 `yaml:"bounciness"`
	Static     bool     `yaml:"static"`
}

type ScriptSpec struct {
	Path   string             `yaml:"path"`
	Params map[string]float64 `yaml:"params"`
}

type AppearanceSpec struct {
	Fill   YAMLColor `yaml:"fill"`
	Stroke YAMLColor `yaml:"stroke"`
	Radius float64   `yaml:"radius"`
}

// RepeatSpec stamps an entity as a pyramid of Rows rows. Row r holds r+1
// copies at x + c*SpacingX - r*RowShift and y - r*SpacingY.
type RepeatSpec struct {
	Rows     int     `yaml:"rows"`
	SpacingX float64 `yaml:"spacing_x"`
	SpacingY float64 `yaml:"spacing_y"`
	RowShift float64 `yaml:"row_shift"`
}

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	err := LoadSpecInto(filename, &spec)
	return spec, err
}

// LoadSpecInto decodes filename over out, keeping fields the file omits.
func LoadSpecInto[T any](filename string, out *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// LoadScene loads a scene by name, with or without the .yaml extension.
func LoadScene(name string) (*SceneSpec, error) {
	if !isSpecFile(name) {
		name += ".yaml"
	}
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(name, ".yaml")
	}
	return &spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
