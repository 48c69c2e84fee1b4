package event

// EventType represents the type of loop event
type EventType int

const (
	// EventTick is the zero event type and the FSM Tick trigger name, never pushed to the queue
	EventTick EventType = iota

	// === Loop Event ===

	// EventLoopReset signals the world was rebuilt during a seek
	// Trigger: timegraph world reset | Consumer: save, render | Payload: *LoopResetPayload
	EventLoopReset

	// EventSeekStart signals the cursor started seeking toward a reset target
	// Trigger: Resetting on_enter | Consumer: AudioSystem | Payload: *SeekPayload
	EventSeekStart

	// EventSeekEnd signals the cursor arrived at the reset target
	// Trigger: Resetting on_exit | Consumer: save | Payload: *SeekPayload
	EventSeekEnd

	// EventMomentFired reports a moment whose happenings were applied
	// Trigger: timegraph dispatch | Consumer: render log pane | Payload: *MomentFiredPayload
	EventMomentFired

	// EventBranchTaken reports the active timeline changed
	// Trigger: TakeBranch action | Consumer: render | Payload: *BranchPayload
	EventBranchTaken

	// EventPortalJump reports a portal moved the cursor
	// Trigger: PortalSystem | Consumer: AudioSystem | Payload: *PortalJumpPayload
	EventPortalJump

	// === Audio Event ===

	// EventSoundRequest requests tone playback
	// Trigger: PlaySound action, systems | Consumer: AudioSystem | Payload: *SoundRequestPayload
	EventSoundRequest
)

// GameEvent is a single queued signal
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}
