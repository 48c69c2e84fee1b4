// Package happen implements the built-in actions timelines refer to by tag.
package happen

import "github.com/lixenwraith/timeloop/timeline"

// Register binds every built-in action to its tag
func Register(reg *timeline.Registry) {
	timeline.RegisterType[Log](reg, "Log")
	timeline.RegisterType[TakeBranch](reg, "TakeBranch")
	timeline.RegisterType[ResetLoop](reg, "ResetLoop")
	timeline.RegisterType[ModifyTimeline](reg, "ModifyTimeline")
	timeline.RegisterType[SpawnPortalTo](reg, "SpawnPortalTo")
	timeline.RegisterType[FlipLever](reg, "FlipLever")
	timeline.RegisterType[MovePlayer](reg, "MovePlayer")
	timeline.RegisterType[Despawn](reg, "Despawn")
	timeline.RegisterType[SpawnTimed](reg, "SpawnTimed")
	timeline.RegisterType[PlaySound](reg, "PlaySound")
	timeline.RegisterType[SpawnTrigger](reg, "SpawnTrigger")
}

// NewRegistry returns a registry with every built-in action
func NewRegistry() *timeline.Registry {
	reg := timeline.NewRegistry()
	Register(reg)
	return reg
}
