package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
)

// ScriptLoader returns the source of a script by path.
type ScriptLoader func(path string) ([]byte, error)

// ScriptSystem runs tengo update hooks. A script defines
//
//	update := func(e) { ... }
//
// where e exposes dt, tilt_x, tilt_y, x, y, vx, vy, screen_w, screen_h,
// params and state, and the functions set_velocity, add_velocity and
// set_position.
type ScriptSystem struct {
	log   *zap.Logger
	load  ScriptLoader
	cache map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	failed   bool
}

const scriptDispatch = `
update(__entity)
`

func NewScriptSystem(load ScriptLoader, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptSystem{
		log:   log,
		load:  load,
		cache: make(map[ecs.Entity]*scriptRuntime),
	}
}

// Invalidate drops compiled scripts loaded from path so they are rebuilt on
// the next tick. An empty path drops everything.
func (s *ScriptSystem) Invalidate(path string) {
	for e, rt := range s.cache {
		if path == "" || sameScript(rt.path, path) {
			delete(s.cache, e)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World, f ecs.Frame) {
	for e := range s.cache {
		if !w.IsAlive(e) {
			delete(s.cache, e)
		}
	}

	for _, e := range w.Query(component.ScriptComponent.ID(), component.TransformComponent.ID()) {
		sc, ok := ecs.Get(w, e, component.ScriptComponent)
		if !ok || strings.TrimSpace(sc.Path) == "" {
			continue
		}
		rt, err := s.runtime(e, sc.Path)
		if err != nil {
			s.log.Warn("script load failed", zap.Stringer("entity", e), zap.String("path", sc.Path), zap.Error(err))
			continue
		}
		if rt.failed {
			continue
		}
		if err := rt.run(buildScriptEntity(w, e, sc, f, rt)); err != nil {
			// A broken script stays disabled until it is reloaded.
			rt.failed = true
			s.log.Warn("script update failed", zap.Stringer("entity", e), zap.String("path", sc.Path), zap.Error(err))
		}
	}
}

func (s *ScriptSystem) runtime(e ecs.Entity, path string) (*scriptRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}
	compiled, err := s.compile(path)
	if err != nil {
		// A failed load stays cached, and quiet, until Invalidate retries it.
		s.cache[e] = &scriptRuntime{path: path, failed: true}
		return nil, err
	}

	rt := &scriptRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.cache[e] = rt
	s.log.Debug("script compiled", zap.Stringer("entity", e), zap.String("path", path))
	return rt, nil
}

func (s *ScriptSystem) compile(path string) (*tengo.Compiled, error) {
	if s.load == nil {
		return nil, fmt.Errorf("script: no loader for %s", path)
	}
	src, err := s.load(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	if err := script.Add("__entity", map[string]any{}); err != nil {
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	return compiled, nil
}

func (rt *scriptRuntime) run(entity *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__entity", entity); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEntity(w *ecs.World, e ecs.Entity, sc *component.Script, f ecs.Frame, rt *scriptRuntime) *tengo.ImmutableMap {
	tr, _ := ecs.Get(w, e, component.TransformComponent)
	rb, hasBody := ecs.Get(w, e, component.RigidBodyComponent)
	hasBody = hasBody && rb.Body != nil

	var vel cp.Vector
	if hasBody {
		vel = rb.Velocity
	}

	params := make(map[string]tengo.Object, len(sc.Params))
	for k, v := range sc.Params {
		params[k] = &tengo.Float{Value: v}
	}

	values := map[string]tengo.Object{
		"dt":       &tengo.Float{Value: f.DT},
		"tilt_x":   &tengo.Float{Value: f.Tilt.X},
		"tilt_y":   &tengo.Float{Value: f.Tilt.Y},
		"screen_w": &tengo.Float{Value: f.Screen.Width},
		"screen_h": &tengo.Float{Value: f.Screen.Height},
		"x":        &tengo.Float{Value: tr.Position.X},
		"y":        &tengo.Float{Value: tr.Position.Y},
		"vx":       &tengo.Float{Value: vel.X},
		"vy":       &tengo.Float{Value: vel.Y},
		"params":   &tengo.ImmutableMap{Value: params},
		"state":    rt.state,
	}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := vectorArgs(args)
		if !ok || !hasBody || !w.IsAlive(e) {
			return tengo.FalseValue, nil
		}
		rb.Velocity = cp.Vector{X: x, Y: y}
		return tengo.TrueValue, nil
	}}

	values["add_velocity"] = &tengo.UserFunction{Name: "add_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := vectorArgs(args)
		if !ok || !hasBody || !w.IsAlive(e) {
			return tengo.FalseValue, nil
		}
		rb.Velocity = rb.Velocity.Add(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := vectorArgs(args)
		if !ok || !w.IsAlive(e) {
			return tengo.FalseValue, nil
		}
		tr.Position = cp.Vector{X: x, Y: y}
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vectorArgs(args []tengo.Object) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	x, okX := tengo.ToFloat64(args[0])
	y, okY := tengo.ToFloat64(args[1])
	return x, y, okX && okY
}

func sameScript(a, b string) bool {
	clean := func(p string) string {
		p = strings.ReplaceAll(p, "\\", "/")
		return p[strings.LastIndex(p, "/")+1:]
	}
	return clean(a) == clean(b)
}
