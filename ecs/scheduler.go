package ecs

// System updates a world once per admitted frame.
type System interface {
	Update(w *World, f Frame)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, f Frame)

func (fn SystemFunc) Update(w *World, f Frame) {
	fn(w, f)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system in order.
func (s *Scheduler) Update(w *World, f Frame) {
	for _, system := range s.systems {
		system.Update(w, f)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// Repeat runs system n times in a row each frame.
func Repeat(n int, system System) System {
	return SystemFunc(func(w *World, f Frame) {
		for i := 0; i < n; i++ {
			system.Update(w, f)
		}
	})
}
