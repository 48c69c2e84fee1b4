package component

import "github.com/lixenwraith/timeloop/core"

// NameComponent is a human-readable handle actions address entities by
type NameComponent struct {
	Value string
}

// TransformComponent places an entity in world space; Yaw is radians about Z
type TransformComponent struct {
	Translation core.Vec3
	Yaw         float64
}

// PlayerComponent marks the controlled character
type PlayerComponent struct{}

// EnvRootComponent marks the root of the environment subtree rebuilt on reset
type EnvRootComponent struct{}
