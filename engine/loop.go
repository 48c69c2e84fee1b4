package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/parameter"
)

// Loop drives the world: each tick latches input, dispatches queued events,
// then runs systems with the game-time delta since the previous tick
type Loop struct {
	world  *World
	clock  *PausableClock
	router *event.Router[*World]
	input  *InputResource
	timeR  *TimeResource

	lastGameTime time.Time
	maxDelta     time.Duration
	log          *slog.Logger
}

// NewLoop wires the queue, router, TimeResource and InputResource into w
func NewLoop(w *World, clock *PausableClock, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	q := w.EventQueue()
	if q == nil {
		q = event.NewEventQueue()
		w.SetEventQueue(q)
	}

	input, ok := GetResource[*InputResource](w.Resources)
	if !ok {
		input = NewInputResource()
		AddResource(w.Resources, input)
	}
	timeR := &TimeResource{GameTime: clock.Now()}
	AddResource(w.Resources, timeR)
	AddResource(w.Resources, clock)

	return &Loop{
		world:        w,
		clock:        clock,
		router:       event.NewRouter[*World](q),
		input:        input,
		timeR:        timeR,
		lastGameTime: clock.Now(),
		maxDelta:     parameter.MaxTickDelta,
		log:          log.With("target", "engine"),
	}
}

// Router exposes the event router for handler registration
func (l *Loop) Router() *event.Router[*World] {
	return l.router
}

// Step runs one tick with an explicit delta, bypassing the clock
// Used by headless simulation and tests
func (l *Loop) Step(dt time.Duration) {
	l.world.RunSafe(func() {
		l.timeR.DeltaTime = dt
		l.timeR.GameTime = l.timeR.GameTime.Add(dt)
		l.timeR.FrameNumber = l.world.Frame()

		l.input.Latch()
		l.router.DispatchAll(l.world)
		l.world.UpdateLocked(dt)
		// Deliver events emitted during this tick before the next one reads state
		l.router.DispatchAll(l.world)
		l.world.advanceFrame()
	})
}

// Tick reads the clock and steps by the elapsed game time; a paused clock yields no step
func (l *Loop) Tick() {
	now := l.clock.Now()
	dt := now.Sub(l.lastGameTime)
	l.lastGameTime = now
	if dt <= 0 {
		return
	}
	if dt > l.maxDelta {
		l.log.Debug("tick delta clamped", "dt", dt, "max", l.maxDelta)
		dt = l.maxDelta
	}
	l.Step(dt)
}

// Run ticks at interval until ctx is done
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	l.log.Info("loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop stopped", "frames", l.world.Frame())
			return ctx.Err()
		case <-ticker.C:
			l.Tick()
		}
	}
}
