package happen

import (
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/parameter"
)

// FlipLever toggles the sprite index of the lever named Name
type FlipLever struct {
	Name string `yaml:"name,omitempty"`
}

// Apply implements timeline.Action
func (a *FlipLever) Apply(w *engine.World) {
	name := a.Name
	if name == "" {
		name = parameter.DefaultLeverName
	}
	levers := engine.StoreOf[component.LeverComponent](w)
	flipped := 0
	for _, e := range component.Named(w, name) {
		levers.Update(e, func(l *component.LeverComponent) {
			l.Index = (l.Index + 1) % parameter.LeverStates
		})
		flipped++
	}
	if flipped == 0 {
		engine.Logger(w).Error("no lever found to flip", "target", "happens", "name", name)
		return
	}
	engine.Logger(w).Info("lever flipped", "target", "happens", "name", name)
}

// MovePlayer teleports the player to To
type MovePlayer struct {
	To core.Vec3 `yaml:"to"`
}

// Apply implements timeline.Action
func (a *MovePlayer) Apply(w *engine.World) {
	players := component.Players(w)
	if len(players) == 0 {
		engine.Logger(w).Warn("MovePlayer: no player", "target", "happens")
		return
	}
	transforms := engine.StoreOf[component.TransformComponent](w)
	for _, p := range players {
		if !transforms.Update(p, func(t *component.TransformComponent) { t.Translation = a.To }) {
			transforms.Set(p, component.TransformComponent{Translation: a.To})
		}
	}
}

// PlaySound requests a sine tone of Tone Hz for Ms milliseconds
type PlaySound struct {
	Tone float64 `yaml:"tone"`
	Ms   int     `yaml:"ms"`
}

// Apply implements timeline.Action
func (a *PlaySound) Apply(w *engine.World) {
	d := time.Duration(a.Ms) * time.Millisecond
	if d <= 0 || d > parameter.AudioMaxTone {
		d = parameter.AudioMaxTone
	}
	w.PushEvent(event.EventSoundRequest, &event.SoundRequestPayload{Frequency: a.Tone, Duration: d})
}
