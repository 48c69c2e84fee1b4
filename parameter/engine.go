package parameter

import "time"

// Game Loop & Engine Timing
const (
	// TickInterval is the default simulation tick (~60 Hz)
	TickInterval = 16 * time.Millisecond

	// RenderInterval is the terminal redraw interval
	RenderInterval = 33 * time.Millisecond

	// MaxTickDelta caps a single tick's dt after stalls so the cursor never leaps across content
	MaxTickDelta = 250 * time.Millisecond
)

// ECS & Resources Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023
)
