package ecs

import "github.com/milk9111/tiltengine/ecs/component"

// Behavior holds the per-entity hooks game code plugs into the loop. Either
// hook may be nil. Hooks run synchronously inside a tick and may create or
// destroy entities.
type Behavior struct {
	Update      func(w *World, self Entity, f Frame)
	OnCollision func(w *World, self, other Entity)
}

var BehaviorComponent = component.NewComponent[Behavior]("behavior")
