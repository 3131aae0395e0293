package ecs

import "github.com/milk9111/tiltengine/ecs/component"

// Query returns, in creation order, the live entities that carry every
// listed component kind. The result is a snapshot: entities created while
// the caller iterates are not part of it.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	sets := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		s := w.store(id, false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}

	out := make([]Entity, 0, len(w.order))
	for _, e := range w.order {
		match := true
		for _, s := range sets {
			if !s.Has(e.ID) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}
