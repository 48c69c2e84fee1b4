package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lixenwraith/timeloop/core"
)

// TimeResource is refreshed by the Loop at the start of each tick
type TimeResource struct {
	// GameTime is the pausable clock reading
	GameTime time.Time

	// DeltaTime is the simulated duration of this tick
	DeltaTime time.Duration

	// FrameNumber is the current tick index
	FrameNumber int64
}

// InputResource buffers player intent from the input goroutine and exposes
// per-tick edges to systems after Latch
type InputResource struct {
	mu sync.Mutex

	pendingInteract bool
	pendingMove     core.Vec3
	held            core.Vec3

	// Latched state, valid for the current tick
	Interact bool
	Move     core.Vec3
}

// NewInputResource creates an empty input buffer
func NewInputResource() *InputResource {
	return &InputResource{}
}

// PressInteract records an interact press; safe from any goroutine
func (r *InputResource) PressInteract() {
	r.mu.Lock()
	r.pendingInteract = true
	r.mu.Unlock()
}

// Nudge adds a one-tick movement impulse; safe from any goroutine
func (r *InputResource) Nudge(dir core.Vec3) {
	r.mu.Lock()
	r.pendingMove = r.pendingMove.Add(dir)
	r.mu.Unlock()
}

// Hold sets a persistent movement direction until changed
func (r *InputResource) Hold(dir core.Vec3) {
	r.mu.Lock()
	r.held = dir
	r.mu.Unlock()
}

// Latch moves buffered input into the tick-visible fields and clears the edges
func (r *InputResource) Latch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Interact = r.pendingInteract
	r.Move = r.pendingMove.Add(r.held)
	r.pendingInteract = false
	r.pendingMove = core.Vec3{}
}

// Logger returns the world's *slog.Logger resource, slog.Default when none is installed
func Logger(w *World) *slog.Logger {
	if l, ok := GetResource[*slog.Logger](w.Resources); ok {
		return l
	}
	return slog.Default()
}

// AudioPlayer plays tones requested through sound events
// Installed as a resource by the launcher; absent when audio is disabled
type AudioPlayer interface {
	PlayTone(frequency float64, d time.Duration)
}
