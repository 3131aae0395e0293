package system

import (
	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
	"github.com/milk9111/tiltengine/physics"
)

// PassStats summarizes one collision pass.
type PassStats struct {
	// Pairs is the number of pairs tested.
	Pairs int
	// Contacts is the number of overlapping pairs.
	Contacts int
	// Resolved is the number of contacts handed to the solver.
	Resolved int
	// Correction is the summed positional correction magnitude.
	Correction float64
}

// CollisionSystem runs one detection and resolution pass over every
// unordered pair of collider entities, in creation order.
type CollisionSystem struct {
	passes []PassStats
}

func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

// maxPassStats bounds the stats kept between TakeStats calls.
const maxPassStats = 64

func (s *CollisionSystem) Update(w *ecs.World, f ecs.Frame) {
	if len(s.passes) == maxPassStats {
		s.passes = append(s.passes[:0], s.passes[1:]...)
	}
	s.passes = append(s.passes, s.Pass(w))
}

// TakeStats returns the stats of the passes since the last call, at most
// the latest maxPassStats of them.
func (s *CollisionSystem) TakeStats() []PassStats {
	out := s.passes
	s.passes = nil
	return out
}

// Pass tests all pairs (i, j), i < j, of the colliders alive when the pass
// starts. Collision hooks fire on both sides before resolution and may
// destroy entities; pairs touching a destroyed entity are skipped, and
// entities created during the pass wait for the next one.
func (s *CollisionSystem) Pass(w *ecs.World) PassStats {
	var stats PassStats
	ents := w.Query(component.TransformComponent.ID(), component.ColliderComponent.ID())
	for i := 0; i < len(ents); i++ {
		for j := i + 1; j < len(ents); j++ {
			a, b := ents[i], ents[j]
			if !w.IsAlive(a) {
				break
			}
			if !w.IsAlive(b) {
				continue
			}
			stats.Pairs++

			trA, _ := ecs.Get(w, a, component.TransformComponent)
			trB, _ := ecs.Get(w, b, component.TransformComponent)
			colA, okA := ecs.Get(w, a, component.ColliderComponent)
			colB, okB := ecs.Get(w, b, component.ColliderComponent)
			if trA == nil || trB == nil || !okA || !okB {
				continue
			}

			m, hit := physics.Collide(colA.Shape, trA.Position, colB.Shape, trB.Position)
			if !hit {
				continue
			}
			stats.Contacts++

			notify(w, a, b)
			notify(w, b, a)

			evt := ecs.CollisionEvent{A: a, B: b}
			if res, ok := resolve(w, a, b, m); ok {
				evt.Resolved = true
				stats.Resolved++
				stats.Correction += res.Correction
			}
			w.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: evt})
		}
	}
	return stats
}

func notify(w *ecs.World, self, other ecs.Entity) {
	b, ok := ecs.Get(w, self, ecs.BehaviorComponent)
	if !ok || b.OnCollision == nil {
		return
	}
	b.OnCollision(w, self, other)
}

// resolve applies the solver when both sides still exist and carry a body.
func resolve(w *ecs.World, a, b ecs.Entity, m physics.Manifold) (physics.Resolution, bool) {
	rbA, okA := ecs.Get(w, a, component.RigidBodyComponent)
	rbB, okB := ecs.Get(w, b, component.RigidBodyComponent)
	if !okA || !okB || rbA.Body == nil || rbB.Body == nil {
		return physics.Resolution{}, false
	}
	trA, okA := ecs.Get(w, a, component.TransformComponent)
	trB, okB := ecs.Get(w, b, component.TransformComponent)
	if !okA || !okB {
		return physics.Resolution{}, false
	}
	res := physics.Resolve(rbA.Body, &trA.Position, rbB.Body, &trB.Position, m)
	return res, res.Applied
}
