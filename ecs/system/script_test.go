package system

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
	"github.com/milk9111/tiltengine/physics"
	"github.com/milk9111/tiltengine/prefabs"
)

type memScripts struct {
	files map[string]string
	loads int
}

func (m *memScripts) load(path string) ([]byte, error) {
	m.loads++
	src, ok := m.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(src), nil
}

func scriptedEntity(t *testing.T, w *ecs.World, path string, params map[string]float64) ecs.Entity {
	t.Helper()
	e := addCollider(t, w, cp.Vector{X: 1, Y: 2}, mustCircle(t, 1), mustBody(t, physics.BodyOptions{Mass: 1, Friction: 1}))
	if err := ecs.Add(w, e, component.ScriptComponent, &component.Script{Path: path, Params: params}); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestScriptSystemExposesFrameAndEntity(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"frame.tengo": `
update := func(e) {
	e.set_position(e.x + e.screen_w, e.y + e.screen_h)
	e.set_velocity(e.tilt_x + e.params.k, e.tilt_y + e.dt)
	e.add_velocity(1, 1)
}`,
	}}
	w := ecs.NewWorld()
	e := scriptedEntity(t, w, "frame.tengo", map[string]float64{"k": 10})

	s := NewScriptSystem(scripts.load, nil)
	s.Update(w, ecs.Frame{DT: 0.25, Tilt: cp.Vector{X: 0.5, Y: -1}, Screen: ecs.Size{Width: 100, Height: 50}})

	tr, _ := ecs.Get(w, e, component.TransformComponent)
	if tr.Position != (cp.Vector{X: 101, Y: 52}) {
		t.Fatalf("position = %v, want (101, 52)", tr.Position)
	}
	rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
	if rb.Velocity != (cp.Vector{X: 11.5, Y: 0.25}) {
		t.Fatalf("velocity = %v, want (11.5, 0.25)", rb.Velocity)
	}
}

func TestScriptSystemKeepsStateAndCaches(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"counter.tengo": `
update := func(e) {
	if e.state.n == undefined { e.state.n = 0 }
	e.state.n = e.state.n + 1
	e.set_velocity(e.state.n, 0)
}`,
	}}
	w := ecs.NewWorld()
	e := scriptedEntity(t, w, "counter.tengo", nil)
	s := NewScriptSystem(scripts.load, nil)

	for i := 0; i < 3; i++ {
		s.Update(w, ecs.Frame{})
	}

	rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
	if rb.Velocity.X != 3 {
		t.Fatalf("state did not persist: velocity %v", rb.Velocity)
	}
	if scripts.loads != 1 {
		t.Fatalf("script loaded %d times, want 1", scripts.loads)
	}
}

func TestScriptSystemInvalidate(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"move.tengo":  `update := func(e) { e.set_velocity(1, 0) }`,
		"other.tengo": `update := func(e) { e.set_velocity(0, 1) }`,
	}}
	w := ecs.NewWorld()
	a := scriptedEntity(t, w, "move.tengo", nil)
	scriptedEntity(t, w, "other.tengo", nil)
	s := NewScriptSystem(scripts.load, nil)

	s.Update(w, ecs.Frame{})
	if scripts.loads != 2 {
		t.Fatalf("loads = %d, want 2", scripts.loads)
	}

	scripts.files["move.tengo"] = `update := func(e) { e.set_velocity(5, 0) }`
	s.Invalidate("prefabs/scripts/move.tengo")
	s.Update(w, ecs.Frame{})

	if scripts.loads != 3 {
		t.Fatalf("only move.tengo should reload, loads = %d", scripts.loads)
	}
	rb, _ := ecs.Get(w, a, component.RigidBodyComponent)
	if rb.Velocity.X != 5 {
		t.Fatalf("reloaded script not used: velocity %v", rb.Velocity)
	}

	s.Invalidate("")
	s.Update(w, ecs.Frame{})
	if scripts.loads != 5 {
		t.Fatalf("loads = %d after full invalidate, want 5", scripts.loads)
	}
}

func TestScriptSystemDisablesFailingScript(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"boom.tengo": `update := func(e) { e.add_velocity(1, 0); e.missing() }`,
	}}
	w := ecs.NewWorld()
	e := scriptedEntity(t, w, "boom.tengo", nil)
	s := NewScriptSystem(scripts.load, nil)

	s.Update(w, ecs.Frame{})
	s.Update(w, ecs.Frame{})

	rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
	if rb.Velocity.X != 1 {
		t.Fatalf("failing script should run once, velocity %v", rb.Velocity)
	}

	s.Invalidate("boom.tengo")
	s.Update(w, ecs.Frame{})
	if rb.Velocity.X != 2 {
		t.Fatalf("reload should re-enable the script, velocity %v", rb.Velocity)
	}
}

func TestScriptSystemLogsBrokenScriptOnce(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"typo.tengo": `update := func(e) { e.set_velocity(3, 0) `,
	}}
	w := ecs.NewWorld()
	e := scriptedEntity(t, w, "typo.tengo", nil)
	core, logs := observer.New(zap.WarnLevel)
	s := NewScriptSystem(scripts.load, zap.New(core))

	for i := 0; i < 5; i++ {
		s.Update(w, ecs.Frame{})
	}
	if scripts.loads != 1 {
		t.Fatalf("broken script loaded %d times, want 1", scripts.loads)
	}
	if n := logs.FilterMessage("script load failed").Len(); n != 1 {
		t.Fatalf("load failure logged %d times, want 1", n)
	}

	scripts.files["typo.tengo"] = `update := func(e) { e.set_velocity(3, 0) }`
	s.Invalidate("typo.tengo")
	s.Update(w, ecs.Frame{})

	rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
	if scripts.loads != 2 || rb.Velocity.X != 3 {
		t.Fatalf("fixed script not picked up: loads %d, velocity %v", scripts.loads, rb.Velocity)
	}
}

func TestScriptSystemDropsDeadEntities(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"noop.tengo": `update := func(e) {}`,
	}}
	w := ecs.NewWorld()
	e := scriptedEntity(t, w, "noop.tengo", nil)
	s := NewScriptSystem(scripts.load, nil)

	s.Update(w, ecs.Frame{})
	w.DestroyEntity(e)
	s.Update(w, ecs.Frame{})

	if len(s.cache) != 0 {
		t.Fatalf("cache holds %d runtimes for dead entities", len(s.cache))
	}
}

func TestSameScript(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"player.tengo", "prefabs/scripts/player.tengo", true},
		{`prefabs\scripts\player.tengo`, "player.tengo", true},
		{"player.tengo", "bubble.tengo", false},
	}
	for _, c := range cases {
		if got := sameScript(c.a, c.b); got != c.want {
			t.Fatalf("sameScript(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestBundledScripts(t *testing.T) {
	frame := ecs.Frame{DT: 0.01, Tilt: cp.Vector{X: 1}, Screen: ecs.Size{Width: 400, Height: 400}}

	t.Run("player", func(t *testing.T) {
		w := ecs.NewWorld()
		e := scriptedEntity(t, w, "player.tengo", map[string]float64{"speed": 3000})
		NewScriptSystem(prefabs.LoadScript, nil).Update(w, frame)

		rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
		if math.Abs(rb.Velocity.X-30) > 1e-9 || rb.Velocity.Y != 0 {
			t.Fatalf("velocity = %v, want (30, 0)", rb.Velocity)
		}
	})

	t.Run("bubble_clamped_to_ring", func(t *testing.T) {
		w := ecs.NewWorld()
		e := scriptedEntity(t, w, "bubble.tengo", map[string]float64{"sensitivity": 5000, "max_dist": 140})
		tr, _ := ecs.Get(w, e, component.TransformComponent)
		tr.Position = cp.Vector{X: 400, Y: 200}

		NewScriptSystem(prefabs.LoadScript, nil).Update(w, frame)

		if d := tr.Position.Sub(cp.Vector{X: 200, Y: 200}).Length(); d < 140-1e-9 || d > 140+1e-9 {
			t.Fatalf("bubble at %v is %v from center, want 140", tr.Position, d)
		}
		rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
		if rb.Velocity.X >= 0 {
			t.Fatalf("tilt and spring should both push the bubble left, velocity %v", rb.Velocity)
		}
	})
}
