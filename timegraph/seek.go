package timegraph

import (
	"math"
	"time"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/timeline"
)

// SeekSpeed is the cosine easing over normalized progress: 0 at both ends, 1 at the midpoint
func SeekSpeed(progress float64) float64 {
	return 0.5 + 0.5*math.Cos((progress-0.5)*2*math.Pi)
}

// SeekStep moves the cursor toward the reset target without firing moments
// The world is rebuilt once, when progress crosses the reset fraction
func (s *Scheduler) SeekStep(w *engine.World, dt time.Duration) {
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok || loop.Mode != timeline.ModeResetting {
		return
	}

	from, to := loop.ResettingFrom, loop.ResettingTo
	if from == to {
		s.log.Warn("reset target equals current time, nothing to seek", "at", to)
		loop.Curr.Time = to
		loop.Mode = timeline.ModeRunning
		return
	}

	curr := loop.Curr.Time
	span := float64(to) - float64(from)
	t0 := (float64(curr) - float64(from)) / span

	step := looptime.FromSeconds(dt.Seconds() * (1 + parameter.SeekPeakSpeedup*SeekSpeed(t0)))
	if step <= 0 && dt > 0 {
		step = 1
	}

	next := approach(curr, to, step)
	loop.Curr.Time = next

	t1 := (float64(next) - float64(from)) / span
	if !loop.WorldReset && t0 < parameter.SeekResetFraction && t1 >= parameter.SeekResetFraction {
		loop.WorldReset = true
		s.log.Info("world reset", "at", next, "epoch", loop.Epoch)
		WorldReset(w)
	}

	if next == to {
		loop.Mode = timeline.ModeRunning
		loop.Epoch++
	}
}

// approach moves curr up to step toward to, landing exactly on to when within reach
// The distance is taken as uint64 so no pair of LoopTimes can wrap
func approach(curr, to, step looptime.LoopTime) looptime.LoopTime {
	switch {
	case curr < to:
		if uint64(to)-uint64(curr) <= uint64(step) {
			return to
		}
		return curr.Add(step)
	case curr > to:
		if uint64(curr)-uint64(to) <= uint64(step) {
			return to
		}
		return curr.Sub(step)
	}
	return to
}
