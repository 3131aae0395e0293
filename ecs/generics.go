package ecs

import (
	"fmt"

	"github.com/milk9111/tiltengine/ecs/component"
)

// Add attaches value to e, replacing any component of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !handle.Kind().Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("%w: %s", component.ErrNilComponent, handle.Kind().Name())
	}
	if !w.IsAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	w.store(handle.ID(), true).Set(e.ID, value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(handle.ID(), false).Remove(e.ID)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.IsAlive(e) && w.store(handle.ID(), false).Has(e.ID)
}

// Get returns the stored pointer so callers mutate the component in place.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	v, ok := w.store(handle.ID(), false).Get(e.ID).(*T)
	return v, ok && v != nil
}
