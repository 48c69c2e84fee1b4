package timegraph

import (
	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/timeline"
)

// Environment rebuilds the static world after a reset
// Spawn must be idempotent: entities flagged with an OnReset survive and are not respawned
type Environment struct {
	Spawn func(w *engine.World)
}

// WorldReset restores every resettable entity, despawning those without a
// bespoke reset, then respawns the environment
func WorldReset(w *engine.World) {
	resettables := engine.StoreOf[component.ResettableComponent](w)

	despawned := 0
	for _, e := range resettables.All() {
		// Already removed as a descendant of an earlier entity
		if !w.Alive(e) {
			continue
		}
		r, ok := resettables.Get(e)
		if !ok {
			continue
		}
		if r.OnReset != nil {
			r.OnReset(w, e)
			continue
		}
		w.DespawnRecursive(e)
		despawned++
	}

	if env, ok := engine.GetResource[*Environment](w.Resources); ok && env.Spawn != nil {
		env.Spawn(w)
	}

	payload := &event.LoopResetPayload{}
	if loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources); ok {
		payload.From, payload.To, payload.Epoch = loop.ResettingFrom, loop.ResettingTo, loop.Epoch
	}
	engine.Logger(w).Debug("world reset", "target", "engine", "despawned", despawned)
	w.PushEvent(event.EventLoopReset, payload)
}
