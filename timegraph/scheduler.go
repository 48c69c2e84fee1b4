// Package timegraph advances the loop cursor through the timeline graph,
// firing moments along branch and merge links, and runs the reset seek.
package timegraph

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/engine/fsm"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/status"
	"github.com/lixenwraith/timeloop/timeline"
)

//go:embed scheduler.fsm.yaml
var schedulerConfig []byte

// Scheduler is the system that owns the TimeLoop cursor each tick
type Scheduler struct {
	machine *fsm.Machine[*engine.World]
	log     *slog.Logger
	started bool

	// dt of the tick being processed, read by FSM actions
	dt time.Duration

	fired    *atomic.Int64
	skipped  *atomic.Int64
	seeks    *atomic.Int64
	timeouts *atomic.Int64
	cycles   *atomic.Int64
}

// NewScheduler compiles the controller FSM; telemetry is optional
func NewScheduler(log *slog.Logger, reg *status.Registry) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	s := &Scheduler{
		machine:  fsm.NewMachine[*engine.World](),
		log:      log.With("target", "time_graph"),
		fired:    reg.Ints.Get("timegraph.fired"),
		skipped:  reg.Ints.Get("timegraph.skipped"),
		seeks:    reg.Ints.Get("timegraph.seeks"),
		timeouts: reg.Ints.Get("timegraph.seek_timeouts"),
		cycles:   reg.Ints.Get("timegraph.cycles"),
	}

	s.machine.RegisterAction("StepLoop", func(w *engine.World, _ any) { s.Step(w, s.dt) })
	s.machine.RegisterAction("SeekStep", func(w *engine.World, _ any) { s.SeekStep(w, s.dt) })
	s.machine.RegisterAction("BeginSeek", s.beginSeek)
	s.machine.RegisterAction("EndSeek", s.endSeek)
	s.machine.RegisterAction("EmitEvent", func(w *engine.World, args any) {
		a := args.(*fsm.EmitEventArgs)
		w.PushEvent(a.Type, a.Payload)
	})
	s.machine.RegisterGuard("ResetRequested", func(w *engine.World) bool {
		loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
		return ok && loop.Mode == timeline.ModeResetting
	})
	s.machine.RegisterGuard("SeekArrived", func(w *engine.World) bool {
		loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
		return ok && loop.Mode == timeline.ModeRunning
	})

	if err := s.machine.LoadConfig(schedulerConfig); err != nil {
		return nil, fmt.Errorf("scheduler fsm: %w", err)
	}
	return s, nil
}

// Update implements engine.System
func (s *Scheduler) Update(w *engine.World, dt time.Duration) {
	if !s.started {
		if err := s.machine.Init(w); err != nil {
			s.log.Error("scheduler fsm init failed", "error", err)
			return
		}
		s.started = true
	}
	s.dt = dt
	s.machine.Update(w, dt)
}

// Priority implements engine.System
func (s *Scheduler) Priority() int {
	return parameter.PriorityTimeGraph
}

// State returns the controller state name
func (s *Scheduler) State() string {
	return s.machine.ActiveState()
}

// Restart re-enters Running after the TimeLoop was replaced wholesale, e.g. by a save restore
// An interrupted seek still runs EndSeek; a loop restored as Running is not snapped
func (s *Scheduler) Restart(w *engine.World) error {
	if !s.started {
		return nil
	}
	if err := s.machine.Reset(w); err != nil {
		return fmt.Errorf("scheduler restart: %w", err)
	}
	return nil
}

func (s *Scheduler) beginSeek(w *engine.World, _ any) {
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	s.seeks.Add(1)
	s.log.Info("seek", "from", loop.ResettingFrom, "to", loop.ResettingTo, "timeline", loop.Curr.Timeline)
	w.PushEvent(event.EventSeekStart, &event.SeekPayload{From: loop.ResettingFrom, To: loop.ResettingTo, Epoch: loop.Epoch})
}

func (s *Scheduler) endSeek(w *engine.World, _ any) {
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	if loop.Mode == timeline.ModeResetting {
		s.finishSeek(w, loop)
	}
	s.log.Info("seek arrived", "at", loop.Curr.Time, "epoch", loop.Epoch)
	w.PushEvent(event.EventSeekEnd, &event.SeekPayload{From: loop.ResettingFrom, To: loop.ResettingTo, Epoch: loop.Epoch})
}

// finishSeek completes a seek cut short by the timeout guard
func (s *Scheduler) finishSeek(w *engine.World, loop *timeline.TimeLoop) {
	s.timeouts.Add(1)
	s.log.Warn("seek timed out, snapping to target",
		"at", loop.Curr.Time, "to", loop.ResettingTo, "progress", loop.Progress())
	if !loop.WorldReset {
		loop.WorldReset = true
		WorldReset(w)
	}
	loop.Curr.Time = loop.ResettingTo
	loop.Mode = timeline.ModeRunning
	loop.Epoch++
}
