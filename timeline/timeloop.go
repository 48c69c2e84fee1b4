package timeline

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/timeloop/looptime"
)

// ErrSeekInProgress rejects a reset request while a seek is running
var ErrSeekInProgress = errors.New("seek already in progress")

// Mode is the cursor's controller state
type Mode int

const (
	ModeRunning Mode = iota
	ModeResetting
)

// String implements fmt.Stringer
func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "Running"
	case ModeResetting:
		return "Resetting"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// TimeLoop is the loop cursor: the active timeline and time, plus seek state
// One per world, installed as a resource
type TimeLoop struct {
	Curr Point
	Mode Mode

	ResettingFrom looptime.LoopTime
	ResettingTo   looptime.LoopTime

	// WorldReset latches once the current seek has rebuilt the world
	WorldReset bool

	// Epoch counts completed seeks
	Epoch uint64
}

// NewTimeLoop starts a running loop at entry
func NewTimeLoop(entry Point) *TimeLoop {
	return &TimeLoop{Curr: entry, Mode: ModeRunning}
}

// RequestReset starts a seek from the current time to to
func (l *TimeLoop) RequestReset(to looptime.LoopTime) error {
	if l.Mode == ModeResetting {
		return fmt.Errorf("reset to %s: %w (seeking %s -> %s)", to, ErrSeekInProgress, l.ResettingFrom, l.ResettingTo)
	}
	l.Mode = ModeResetting
	l.ResettingFrom = l.Curr.Time
	l.ResettingTo = to
	l.WorldReset = false
	return nil
}

// TakeBranch switches the active timeline, keeping the time
func (l *TimeLoop) TakeBranch(id ID) {
	l.Curr.Timeline = id
}

// JumpTo sets the cursor instantly without seeking
func (l *TimeLoop) JumpTo(p Point) {
	l.Curr = p
}

// Progress returns normalized seek progress in [0,1], 1 when not seeking
func (l *TimeLoop) Progress() float64 {
	if l.Mode != ModeResetting || l.ResettingFrom == l.ResettingTo {
		return 1
	}
	span := float64(l.ResettingTo) - float64(l.ResettingFrom)
	return (float64(l.Curr.Time) - float64(l.ResettingFrom)) / span
}
