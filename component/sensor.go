package component

import "github.com/lixenwraith/timeloop/timeline"

// SensorComponent is a ball volume tested against the player for overlap
type SensorComponent struct {
	Radius float64
}

// PortalToComponent moves the cursor to Dest when the player enters the sensor
type PortalToComponent struct {
	Dest timeline.Point
}

// InteractSignComponent is the UI prompt shown while an interact trigger overlaps
type InteractSignComponent struct {
	Text    string
	Visible bool
}

// LeverComponent is a two-state switch; Index selects its sprite
type LeverComponent struct {
	Index int
}

// ClockHandComponent rotates with loop time
type ClockHandComponent struct{}
