package system

import (
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/timeline"
)

// LifetimeSystem despawns entities whose lifetime has elapsed in loop time
type LifetimeSystem struct{}

// NewLifetimeSystem creates a lifetime system
func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

// Priority returns the system's priority
func (s *LifetimeSystem) Priority() int {
	return parameter.PriorityLifetime
}

// Update compares loop time against SpawnedAt+Duration
func (s *LifetimeSystem) Update(w *engine.World, dt time.Duration) {
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	lifetimes := engine.StoreOf[component.LifetimeComponent](w)
	spawned := engine.StoreOf[component.SpawnedAtComponent](w)

	for _, e := range w.Query().With(lifetimes).With(spawned).Execute() {
		if !w.Alive(e) {
			continue
		}
		lt, _ := lifetimes.Get(e)
		at, _ := spawned.Get(e)
		if loop.Curr.Time.Sub(at.At) >= lt.Duration {
			engine.Logger(w).Debug("lifetime expired", "target", "engine", "entity", e, "spawned", at.At, "lifetime", lt.Duration)
			w.DespawnRecursive(e)
		}
	}
}
