package component

import (
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/looptime"
)

// SpawnedAtComponent records the loop time the entity was created at
type SpawnedAtComponent struct {
	At looptime.LoopTime
}

// LifetimeComponent despawns the entity once loop time passes SpawnedAt+Duration
type LifetimeComponent struct {
	Duration looptime.LoopTime
}

// ResetFunc restores an entity during a world reset instead of despawning it
type ResetFunc func(w *engine.World, e core.Entity)

// ResettableComponent opts an entity into world reset handling
// Nil OnReset despawns the entity and its subtree
type ResettableComponent struct {
	OnReset ResetFunc
}
