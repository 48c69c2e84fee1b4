// Package system holds the per-tick gameplay systems that sit around the scheduler.
package system

import (
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/physics"
)

// TriggerSystem fires trigger causes when the player enters or interacts
// with a trigger sensor, and drives the interact prompt
type TriggerSystem struct{}

// NewTriggerSystem creates a trigger system
func NewTriggerSystem() *TriggerSystem {
	return &TriggerSystem{}
}

// Priority returns the system's priority
func (s *TriggerSystem) Priority() int {
	return parameter.PriorityTrigger
}

// Update detects overlap edges and applies causes in trigger spawn order
func (s *TriggerSystem) Update(w *engine.World, dt time.Duration) {
	if len(component.Players(w)) == 0 {
		return
	}
	log := engine.Logger(w)
	overlap := physics.OverlapResource(w)

	pressed := false
	if input, ok := engine.GetResource[*engine.InputResource](w.Resources); ok {
		pressed = input.Interact
	}

	triggers := engine.StoreOf[component.TriggerComponent](w)
	sensors := engine.StoreOf[component.SensorComponent](w)
	states := engine.StoreOf[component.TriggerStateComponent](w)

	prompt := ""
	for _, e := range w.Query().With(triggers).With(sensors).Execute() {
		// Causes of an earlier trigger may have despawned this one
		if !w.Alive(e) {
			continue
		}
		trig, ok := triggers.Get(e)
		if !ok {
			continue
		}

		inside := len(overlap.Overlapping(w, e)) > 0
		prev, _ := states.Get(e)
		states.Set(e, component.TriggerStateComponent{Inside: inside})

		var fire bool
		if trig.Kind.Interact {
			fire = inside && pressed
			if inside && !(fire && trig.Oneshot) && prompt == "" {
				prompt = trig.Kind.Message
			}
		} else {
			fire = inside && !prev.Inside
		}
		if !fire {
			continue
		}

		log.Debug("trigger fired", "target", "happens", "entity", e, "kind", trig.Kind.String(), "causes", len(trig.Causes))
		for _, rec := range trig.Causes {
			rec.Action.Apply(w)
		}
		if trig.Oneshot {
			w.DespawnRecursive(e)
		}
	}

	showPrompt(w, prompt)
}

// showPrompt updates the interact sign; an empty message hides it
func showPrompt(w *engine.World, message string) {
	signs := engine.StoreOf[component.InteractSignComponent](w)
	for _, e := range signs.All() {
		signs.Update(e, func(sign *component.InteractSignComponent) {
			sign.Visible = message != ""
			if message != "" {
				sign.Text = message
			}
		})
	}
}
