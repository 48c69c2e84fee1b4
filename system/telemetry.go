package system

import (
	"time"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/status"
	"github.com/lixenwraith/timeloop/timeline"
)

// TelemetrySystem publishes loop and world state into the status registry
// Runs last so readers see the state the tick ended with
type TelemetrySystem struct {
	reg *status.Registry
}

// NewTelemetrySystem creates a telemetry system writing into reg
func NewTelemetrySystem(reg *status.Registry) *TelemetrySystem {
	return &TelemetrySystem{reg: reg}
}

// Priority returns the system's priority
func (s *TelemetrySystem) Priority() int {
	return parameter.PriorityTelemetry
}

// EventTypes returns the event types TelemetrySystem counts
func (s *TelemetrySystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventBranchTaken,
		event.EventPortalJump,
		event.EventLoopReset,
	}
}

// HandleEvent counts navigation events by type
func (s *TelemetrySystem) HandleEvent(w *engine.World, ev event.GameEvent) {
	s.reg.Ints.Get("events." + ev.Type.String()).Add(1)
}

// Update snapshots the cursor and world size
func (s *TelemetrySystem) Update(w *engine.World, dt time.Duration) {
	s.reg.Ints.Get("engine.frame").Store(w.Frame())
	s.reg.Ints.Get("world.entities").Store(int64(w.EntityCount()))
	if dt > 0 {
		s.reg.Floats.Get("engine.fps").Set(1 / dt.Seconds())
	}
	if q := w.EventQueue(); q != nil {
		s.reg.Ints.Get("events.pending").Store(int64(q.Len()))
		s.reg.Ints.Get("events.dropped").Store(int64(q.Dropped()))
	}

	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	s.reg.Strings.Get("loop.timeline").Store(string(loop.Curr.Timeline))
	s.reg.Strings.Get("loop.time").Store(loop.Curr.Time.String())
	s.reg.Strings.Get("loop.mode").Store(loop.Mode.String())
	s.reg.Ints.Get("loop.epoch").Store(int64(loop.Epoch))
	s.reg.Floats.Get("loop.progress").Set(loop.Progress())
}
