package system

import (
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/physics"
)

// PlayerMoveSystem integrates latched movement input into the player transform
type PlayerMoveSystem struct {
	speed float64
}

// NewPlayerMoveSystem creates a movement system at the default player speed
func NewPlayerMoveSystem() *PlayerMoveSystem {
	return &PlayerMoveSystem{speed: parameter.PlayerSpeed}
}

// Priority returns the system's priority
func (s *PlayerMoveSystem) Priority() int {
	return parameter.PriorityPlayer
}

// Update moves every player by the latched direction
func (s *PlayerMoveSystem) Update(w *engine.World, dt time.Duration) {
	input, ok := engine.GetResource[*engine.InputResource](w.Resources)
	if !ok || input.Move.Len() == 0 {
		return
	}
	transforms := engine.StoreOf[component.TransformComponent](w)
	for _, p := range component.Players(w) {
		transforms.Update(p, func(t *component.TransformComponent) {
			t.Translation = physics.Integrate(t.Translation, input.Move, s.speed, dt)
		})
	}
}
