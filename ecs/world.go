package ecs

import (
	"slices"

	"github.com/milk9111/tiltengine/ecs/component"
)

// World owns entities and their components. Live entities are kept in the
// order they were created; systems iterate in that order.
type World struct {
	entities entityStore
	order    []Entity
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity and appends it to the live collection.
func (w *World) CreateEntity() Entity {
	e := w.entities.create()
	w.order = append(w.order, e)
	return e
}

// DestroyEntity removes an entity and its components. The relative order of
// the remaining entities is kept.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.ID)
	}
	if i := slices.Index(w.order, e); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Clear destroys every entity.
func (w *World) Clear() {
	for _, e := range w.order {
		w.entities.destroy(e)
	}
	for _, s := range w.stores {
		s.Clear()
	}
	w.order = w.order[:0]
	w.events.flush()
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.order)
}

// Entities returns a snapshot of the live entities in creation order.
func (w *World) Entities() []Entity {
	return slices.Clone(w.order)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
