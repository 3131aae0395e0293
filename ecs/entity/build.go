package entity

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
	"github.com/milk9111/tiltengine/physics"
	"github.com/milk9111/tiltengine/prefabs"
)

var ErrUnknownShape = errors.New("unknown collider shape")

// Template is everything needed to spawn one entity. Nil parts are left off.
type Template struct {
	Name       string
	Position   cp.Vector
	Shape      *physics.Shape
	Body       *physics.BodyOptions
	Script     *component.Script
	Behavior   *ecs.Behavior
	Appearance *component.Appearance
}

// Spawn creates an entity from t. On error nothing is left in the world.
func Spawn(w *ecs.World, t Template) (ecs.Entity, error) {
	if w == nil {
		return ecs.Entity{}, fmt.Errorf("spawn %q: world is nil", t.Name)
	}

	var body *physics.Body
	if t.Body != nil {
		b, err := physics.NewBody(*t.Body)
		if err != nil {
			return ecs.Entity{}, fmt.Errorf("spawn %q: %w", t.Name, err)
		}
		body = b
	}

	e := w.CreateEntity()
	if err := attach(w, e, t, body); err != nil {
		w.DestroyEntity(e)
		return ecs.Entity{}, fmt.Errorf("spawn %q: %w", t.Name, err)
	}
	return e, nil
}

func attach(w *ecs.World, e ecs.Entity, t Template, body *physics.Body) error {
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: t.Position}); err != nil {
		return err
	}
	if t.Shape != nil {
		if err := ecs.Add(w, e, component.ColliderComponent, &component.Collider{Shape: *t.Shape}); err != nil {
			return err
		}
	}
	if body != nil {
		if err := ecs.Add(w, e, component.RigidBodyComponent, &component.RigidBody{Body: body}); err != nil {
			return err
		}
	}
	if t.Script != nil {
		sc := *t.Script
		if err := ecs.Add(w, e, component.ScriptComponent, &sc); err != nil {
			return err
		}
	}
	if t.Behavior != nil {
		b := *t.Behavior
		if err := ecs.Add(w, e, ecs.BehaviorComponent, &b); err != nil {
			return err
		}
	}
	look := component.Appearance{Name: t.Name}
	if t.Appearance != nil {
		look = *t.Appearance
		if look.Name == "" {
			look.Name = t.Name
		}
	}
	return ecs.Add(w, e, component.AppearanceComponent, &look)
}

// BuildScene spawns every entity of spec, resolving screen-relative
// positions and sizes against screen. Entities spawned before a failure stay
// in the world; the error names the one that failed.
func BuildScene(w *ecs.World, spec *prefabs.SceneSpec, screen ecs.Size) ([]ecs.Entity, error) {
	if spec == nil {
		return nil, fmt.Errorf("build scene: spec is nil")
	}

	var out []ecs.Entity
	for i, es := range spec.Entities {
		ents, err := BuildEntity(w, es, screen)
		out = append(out, ents...)
		if err != nil {
			return out, fmt.Errorf("build scene %q: entity %d: %w", spec.Name, i, err)
		}
	}
	return out, nil
}

// BuildEntity spawns one scene entry, or several when it repeats.
func BuildEntity(w *ecs.World, es prefabs.EntitySpec, screen ecs.Size) ([]ecs.Entity, error) {
	t, err := Resolve(es, screen)
	if err != nil {
		return nil, err
	}

	positions := []cp.Vector{t.Position}
	if es.Repeat != nil && es.Repeat.Rows > 0 {
		positions = pyramid(t.Position, *es.Repeat)
	}

	out := make([]ecs.Entity, 0, len(positions))
	for _, pos := range positions {
		t.Position = pos
		e, err := Spawn(w, t)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Resolve turns a scene entry into a Template for the given screen.
func Resolve(es prefabs.EntitySpec, screen ecs.Size) (Template, error) {
	t := Template{
		Name: es.Name,
		Position: cp.Vector{
			X: es.Position.X + es.Position.RelX*screen.Width,
			Y: es.Position.Y + es.Position.RelY*screen.Height,
		},
		Appearance: &component.Appearance{
			Name:   es.Name,
			Fill:   es.Look.Fill.Color,
			Stroke: es.Look.Stroke.Color,
			Radius: es.Look.Radius,
		},
	}

	if es.Collider != nil {
		shape, err := resolveShape(*es.Collider, screen)
		if err != nil {
			return Template{}, err
		}
		t.Shape = &shape
	}

	if es.Body != nil {
		opts := physics.DefaultBodyOptions()
		opts.Static = es.Body.Static
		if es.Body.Mass != nil {
			opts.Mass = *es.Body.Mass
		}
		if es.Body.Friction != nil {
			opts.Friction = *es.Body.Friction
		}
		if es.Body.Bounciness != nil {
			opts.Bounciness = *es.Body.Bounciness
		}
		t.Body = &opts
	}

	if es.Script != nil && strings.TrimSpace(es.Script.Path) != "" {
		params := make(map[string]float64, len(es.Script.Params))
		for k, v := range es.Script.Params {
			params[k] = v
		}
		t.Script = &component.Script{Path: es.Script.Path, Params: params}
	}

	return t, nil
}

func resolveShape(cs prefabs.ColliderSpec, screen ecs.Size) (physics.Shape, error) {
	switch strings.ToLower(strings.TrimSpace(cs.Shape)) {
	case "circle":
		return physics.NewCircle(cs.Radius)
	case "rect", "box":
		return physics.NewRect(cs.Width+cs.RelWidth*screen.Width, cs.Height+cs.RelHeight*screen.Height)
	default:
		return physics.Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, cs.Shape)
	}
}

func pyramid(base cp.Vector, r prefabs.RepeatSpec) []cp.Vector {
	out := make([]cp.Vector, 0, r.Rows*(r.Rows+1)/2)
	for row := 0; row < r.Rows; row++ {
		for col := 0; col <= row; col++ {
			out = append(out, cp.Vector{
				X: base.X + float64(col)*r.SpacingX - float64(row)*r.RowShift,
				Y: base.Y - float64(row)*r.SpacingY,
			})
		}
	}
	return out
}

var outline = colornames.Slategray

// NewBall is a dynamic circle whose mass grows with its radius.
func NewBall(pos cp.Vector, radius, bounciness float64, fill color.Color) (Template, error) {
	shape, err := physics.NewCircle(radius)
	if err != nil {
		return Template{}, err
	}
	return Template{
		Name:       "ball",
		Position:   pos,
		Shape:      &shape,
		Body:       &physics.BodyOptions{Mass: radius * 0.5, Friction: 0.99, Bounciness: bounciness},
		Appearance: &component.Appearance{Fill: fill, Stroke: outline},
	}, nil
}

func NewBox(pos cp.Vector, width, height float64, fill color.Color) (Template, error) {
	shape, err := physics.NewRect(width, height)
	if err != nil {
		return Template{}, err
	}
	return Template{
		Name:       "box",
		Position:   pos,
		Shape:      &shape,
		Body:       &physics.BodyOptions{Mass: 15, Friction: 0.95, Bounciness: 0.2},
		Appearance: &component.Appearance{Fill: fill, Stroke: outline},
	}, nil
}

// RandomShape picks a ball or a box of random size at pos.
func RandomShape(rng *rand.Rand, pos cp.Vector) Template {
	var (
		t   Template
		err error
	)
	if rng.Float64() > 0.5 {
		t, err = NewBall(pos, 15+rng.Float64()*20, 0.6, colornames.Gold)
	} else {
		t, err = NewBox(pos, 40+rng.Float64()*20, 40+rng.Float64()*20, colornames.Mediumseagreen)
	}
	if err != nil {
		// Sizes above are always positive.
		panic(err)
	}
	return t
}
