package system

import (
	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
)

// BehaviorSystem runs every entity's Behavior.Update hook. Entities created
// by a hook are first updated on the next tick.
type BehaviorSystem struct{}

func NewBehaviorSystem() *BehaviorSystem {
	return &BehaviorSystem{}
}

func (s *BehaviorSystem) Update(w *ecs.World, f ecs.Frame) {
	for _, e := range w.Query(ecs.BehaviorComponent.ID()) {
		b, ok := ecs.Get(w, e, ecs.BehaviorComponent)
		if !ok || b.Update == nil {
			continue
		}
		b.Update(w, e, f)
	}
}

// IntegrationSystem advances every rigid body by the frame's dt.
type IntegrationSystem struct{}

func NewIntegrationSystem() *IntegrationSystem {
	return &IntegrationSystem{}
}

func (s *IntegrationSystem) Update(w *ecs.World, f ecs.Frame) {
	for _, e := range w.Query(component.TransformComponent.ID(), component.RigidBodyComponent.ID()) {
		tr, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent)
		if !ok {
			continue
		}
		rb.Integrate(&tr.Position, f.DT)
	}
}
