package system

import (
	"math"
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/timeline"
)

// ClockHandSystem points clock hands at the loop time, one turn per minute
type ClockHandSystem struct{}

// NewClockHandSystem creates a clock hand system
func NewClockHandSystem() *ClockHandSystem {
	return &ClockHandSystem{}
}

// Priority returns the system's priority
func (s *ClockHandSystem) Priority() int {
	return parameter.PriorityClockHand
}

// Update sets each hand's yaw; clockwise is negative
func (s *ClockHandSystem) Update(w *engine.World, dt time.Duration) {
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	yaw := HandAngle(loop.Curr.Time.SecsF())

	hands := engine.StoreOf[component.ClockHandComponent](w)
	transforms := engine.StoreOf[component.TransformComponent](w)
	for _, e := range hands.All() {
		if !transforms.Update(e, func(t *component.TransformComponent) { t.Yaw = yaw }) {
			transforms.Set(e, component.TransformComponent{Yaw: yaw})
		}
	}
}

// HandAngle is the hand yaw in radians after secs of loop time
func HandAngle(secs float64) float64 {
	return -2 * math.Pi * secs / parameter.ClockHandPeriodSecs
}
