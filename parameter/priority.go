package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityTimeGraph = 10 // Cursor advance and moment dispatch before anything reads loop time
	PriorityPlayer    = 20
	PriorityTrigger   = 30
	PriorityPortal    = 40
	PriorityLifetime  = 50
	PriorityClockHand = 60
	PriorityAudio     = 900
	PriorityTelemetry = 1000
)
