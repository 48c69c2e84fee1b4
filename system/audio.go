package system

import (
	"time"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/parameter"
)

// AudioSystem consumes sound request events and plays them on the installed player
// Decouples actions from direct audio backend access
type AudioSystem struct {
	played int
}

// NewAudioSystem creates an audio system
func NewAudioSystem() *AudioSystem {
	return &AudioSystem{}
}

// Priority returns the system's priority
func (s *AudioSystem) Priority() int {
	return parameter.PriorityAudio
}

// EventTypes returns the event types AudioSystem handles
func (s *AudioSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventSoundRequest}
}

// HandleEvent plays the requested tone; without a player the request is dropped
func (s *AudioSystem) HandleEvent(w *engine.World, ev event.GameEvent) {
	payload, ok := ev.Payload.(*event.SoundRequestPayload)
	if !ok {
		return
	}
	player, ok := engine.GetResource[engine.AudioPlayer](w.Resources)
	if !ok || player == nil {
		return
	}
	player.PlayTone(payload.Frequency, payload.Duration)
	s.played++
}

// Update implements engine.System (no tick-based logic)
func (s *AudioSystem) Update(w *engine.World, dt time.Duration) {}

// Played returns the number of tones handed to the player
func (s *AudioSystem) Played() int {
	return s.played
}
