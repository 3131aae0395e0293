package system

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
	"github.com/milk9111/tiltengine/physics"
)

func addCollider(t *testing.T, w *ecs.World, pos cp.Vector, shape physics.Shape, body *physics.Body) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: pos}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent, &component.Collider{Shape: shape}); err != nil {
		t.Fatal(err)
	}
	if body != nil {
		if err := ecs.Add(w, e, component.RigidBodyComponent, &component.RigidBody{Body: body}); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func mustCircle(t *testing.T, r float64) physics.Shape {
	t.Helper()
	s, err := physics.NewCircle(r)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustBody(t *testing.T, opts physics.BodyOptions) *physics.Body {
	t.Helper()
	b, err := physics.NewBody(opts)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestCollisionPass(t *testing.T) {
	cases := []struct {
		name   string
		bodies [3]bool
		want   PassStats
	}{
		// a-b and b-c overlap, a-c do not.
		{"all_bodies", [3]bool{true, true, true}, PassStats{Pairs: 3, Contacts: 2, Resolved: 2}},
		{"middle_without_body", [3]bool{true, false, true}, PassStats{Pairs: 3, Contacts: 2, Resolved: 0}},
		{"last_without_body", [3]bool{true, true, false}, PassStats{Pairs: 3, Contacts: 2, Resolved: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			for i, hasBody := range c.bodies {
				var b *physics.Body
				if hasBody {
					b = mustBody(t, physics.BodyOptions{Mass: 1, Friction: 1})
				}
				addCollider(t, w, cp.Vector{X: float64(i) * 15}, mustCircle(t, 10), b)
			}

			got := NewCollisionSystem().Pass(w)
			if got.Pairs != c.want.Pairs || got.Contacts != c.want.Contacts || got.Resolved != c.want.Resolved {
				t.Fatalf("stats = %+v, want %+v", got, c.want)
			}
			if (got.Correction > 0) != (c.want.Resolved > 0) {
				t.Fatalf("correction = %v with %d resolved", got.Correction, got.Resolved)
			}
			if n := w.Events().Len(); n != c.want.Contacts {
				t.Fatalf("events = %d, want %d", n, c.want.Contacts)
			}
		})
	}
}

func TestCollisionPassOrderAndEvents(t *testing.T) {
	w := ecs.NewWorld()
	var order [][2]ecs.Entity
	record := &ecs.Behavior{OnCollision: func(_ *ecs.World, self, other ecs.Entity) {
		order = append(order, [2]ecs.Entity{self, other})
	}}

	a := addCollider(t, w, cp.Vector{}, mustCircle(t, 10), nil)
	b := addCollider(t, w, cp.Vector{X: 5}, mustCircle(t, 10), nil)
	for _, e := range []ecs.Entity{a, b} {
		if err := ecs.Add(w, e, ecs.BehaviorComponent, record); err != nil {
			t.Fatal(err)
		}
	}

	NewCollisionSystem().Pass(w)

	want := [][2]ecs.Entity{{a, b}, {b, a}}
	if len(order) != len(want) || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("hook order = %v, want %v", order, want)
	}
	events := w.Events().Drain()
	if len(events) != 1 {
		t.Fatalf("events = %v", events)
	}
	if ce, ok := events[0].Data.(ecs.CollisionEvent); !ok || ce.A != a || ce.B != b || ce.Resolved {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestCollisionHookDestroyingSelfSkipsResolution(t *testing.T) {
	w := ecs.NewWorld()
	body := func() *physics.Body { return mustBody(t, physics.BodyOptions{Mass: 1, Friction: 1}) }
	a := addCollider(t, w, cp.Vector{}, mustCircle(t, 10), body())
	b := addCollider(t, w, cp.Vector{X: 5}, mustCircle(t, 10), body())
	c := addCollider(t, w, cp.Vector{X: 12}, mustCircle(t, 10), body())

	err := ecs.Add(w, a, ecs.BehaviorComponent, &ecs.Behavior{OnCollision: func(w *ecs.World, self, _ ecs.Entity) {
		w.DestroyEntity(self)
	}})
	if err != nil {
		t.Fatal(err)
	}

	stats := NewCollisionSystem().Pass(w)

	// (a,b) hits and a dies before resolution; the rest of a's row is
	// skipped and (b,c) still resolves.
	if stats.Pairs != 2 || stats.Contacts != 2 || stats.Resolved != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if w.IsAlive(a) {
		t.Fatalf("a should be gone")
	}
	trB, _ := ecs.Get(w, b, component.TransformComponent)
	trC, _ := ecs.Get(w, c, component.TransformComponent)
	if trB.Position.X >= 5 || trC.Position.X <= 12 {
		t.Fatalf("b and c should have been pushed apart, at %v and %v", trB.Position, trC.Position)
	}
}

func TestCollisionSystemTakeStats(t *testing.T) {
	w := ecs.NewWorld()
	s := NewCollisionSystem()
	ecs.Repeat(4, s).Update(w, ecs.Frame{})

	if got := len(s.TakeStats()); got != 4 {
		t.Fatalf("stats = %d, want 4", got)
	}
	if got := s.TakeStats(); got != nil {
		t.Fatalf("stats should reset after TakeStats, got %v", got)
	}
}

func TestCollisionSystemStatsAreBounded(t *testing.T) {
	w := ecs.NewWorld()
	addCollider(t, w, cp.Vector{}, mustCircle(t, 1), nil)
	addCollider(t, w, cp.Vector{X: 50}, mustCircle(t, 1), nil)
	s := NewCollisionSystem()

	ecs.Repeat(3*maxPassStats, s).Update(w, ecs.Frame{})
	addCollider(t, w, cp.Vector{X: 100}, mustCircle(t, 1), nil)
	s.Update(w, ecs.Frame{})

	stats := s.TakeStats()
	if len(stats) != maxPassStats {
		t.Fatalf("kept %d pass stats, want %d", len(stats), maxPassStats)
	}
	if stats[0].Pairs != 1 || stats[len(stats)-1].Pairs != 3 {
		t.Fatalf("want the latest passes kept, first %+v last %+v", stats[0], stats[len(stats)-1])
	}
}
