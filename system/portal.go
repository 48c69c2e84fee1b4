package system

import (
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/physics"
	"github.com/lixenwraith/timeloop/timeline"
)

// PortalSystem jumps the loop cursor when the player walks into a portal
// The jump is instant: no seek and no world reset
type PortalSystem struct{}

// NewPortalSystem creates a portal system
func NewPortalSystem() *PortalSystem {
	return &PortalSystem{}
}

// Priority returns the system's priority
func (s *PortalSystem) Priority() int {
	return parameter.PriorityPortal
}

// Update applies at most one jump per tick, on the entering edge
func (s *PortalSystem) Update(w *engine.World, dt time.Duration) {
	if len(component.Players(w)) == 0 {
		return
	}
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	overlap := physics.OverlapResource(w)

	portals := engine.StoreOf[component.PortalToComponent](w)
	sensors := engine.StoreOf[component.SensorComponent](w)
	states := engine.StoreOf[component.TriggerStateComponent](w)

	jumped := false
	for _, e := range w.Query().With(portals).With(sensors).Execute() {
		inside := len(overlap.Overlapping(w, e)) > 0
		prev, _ := states.Get(e)
		states.Set(e, component.TriggerStateComponent{Inside: inside})
		if jumped || !inside || prev.Inside {
			continue
		}
		// A seek owns the cursor until it arrives
		if loop.Mode != timeline.ModeRunning {
			continue
		}

		p, _ := portals.Get(e)
		from := loop.Curr
		loop.JumpTo(p.Dest)
		jumped = true

		engine.Logger(w).Info("portal jump", "target", "happens", "from", from.String(), "to", p.Dest.String())
		w.PushEvent(event.EventPortalJump, &event.PortalJumpPayload{
			FromTimeline: string(from.Timeline),
			FromTime:     from.Time,
			ToTimeline:   string(p.Dest.Timeline),
			ToTime:       p.Dest.Time,
		})
	}
}
