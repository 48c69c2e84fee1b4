package parameter

import "time"

// Seek controller shaping
const (
	// SeekResetFraction is the normalized seek progress at which the world is rebuilt
	SeekResetFraction = 0.4

	// SeekPeakSpeedup multiplies dt at the middle of a seek (total factor 1+SeekPeakSpeedup)
	SeekPeakSpeedup = 8.0

	// SeekTimeout bounds a seek's wall time; the controller snaps to the target past it
	// Mirrored by the StateTimeExceeds guard in timegraph/scheduler.fsm.yaml
	SeekTimeout = 45 * time.Second
)

// Content defaults
const (
	// TimelineExt is the content file suffix
	TimelineExt = ".tl.yaml"

	// TimelineDir is the asset-relative directory scanned for timelines
	TimelineDir = "tl"

	// DefaultEntryTimeline is the timeline the loop starts on
	DefaultEntryTimeline = "tl/intro.tl.yaml"
)
