package engine

import "time"

// System is a unit of per-tick logic
type System interface {
	// Update runs once per tick in priority order
	Update(w *World, dt time.Duration)

	// Priority orders systems; lower runs first
	Priority() int
}

// SystemFunc adapts a plain function into a System
type SystemFunc struct {
	Order int
	Fn    func(w *World, dt time.Duration)
}

// Update calls Fn
func (s SystemFunc) Update(w *World, dt time.Duration) {
	s.Fn(w, dt)
}

// Priority returns Order
func (s SystemFunc) Priority() int {
	return s.Order
}
