package event

import (
	"time"

	"github.com/lixenwraith/timeloop/looptime"
)

// LoopResetPayload carries the seek that triggered the rebuild
type LoopResetPayload struct {
	From  looptime.LoopTime `yaml:"from"`
	To    looptime.LoopTime `yaml:"to"`
	Epoch uint64            `yaml:"epoch"`
}

// SeekPayload describes a seek's endpoints
type SeekPayload struct {
	From  looptime.LoopTime `yaml:"from"`
	To    looptime.LoopTime `yaml:"to"`
	Epoch uint64            `yaml:"epoch"`
}

// MomentFiredPayload identifies a fired moment
type MomentFiredPayload struct {
	Timeline string            `yaml:"timeline"`
	At       looptime.LoopTime `yaml:"at"`
	Label    string            `yaml:"label"`
}

// BranchPayload carries the previous and new active timeline
type BranchPayload struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// PortalJumpPayload carries the cursor before and after a jump
type PortalJumpPayload struct {
	FromTimeline string            `yaml:"from_timeline"`
	FromTime     looptime.LoopTime `yaml:"from_time"`
	ToTimeline   string            `yaml:"to_timeline"`
	ToTime       looptime.LoopTime `yaml:"to_time"`
}

// SoundRequestPayload is a single sine tone
type SoundRequestPayload struct {
	Frequency float64       `yaml:"frequency"`
	Duration  time.Duration `yaml:"duration"`
}
