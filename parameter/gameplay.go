package parameter

// Sensors and interaction
const (
	// DefaultSensorRadius is the ball radius of spawned portal and trigger sensors
	DefaultSensorRadius = 0.5

	// DefaultInteractMessage is the prompt shown for interact triggers without a message
	DefaultInteractMessage = "Interact"

	// DefaultLeverName is the entity FlipLever targets when no name is given
	DefaultLeverName = "IntroLever"

	// LeverStates is the number of sprite indices a lever cycles through
	LeverStates = 2

	// PlayerRadius is the player's overlap radius
	PlayerRadius = 0.4

	// PlayerSpeed is the player's movement speed in world units per second
	PlayerSpeed = 4.0
)

// Clock hand completes one revolution per minute of loop time
const ClockHandPeriodSecs = 60.0
