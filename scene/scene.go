// Package scene spawns the static world: environment, lever, clock, player and UI sign.
package scene

import (
	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/timegraph"
)

// Layout positions in world units
var (
	PlayerStart = core.Vec3{}
	LeverAt     = core.Vec3{X: 2}
	ClockAt     = core.Vec3{Y: 4}
)

// Install spawns the initial scene and registers the environment respawn for world resets
func Install(w *engine.World) {
	engine.AddResource(w.Resources, &timegraph.Environment{Spawn: SpawnEnvironment})
	SpawnEnvironment(w)
	SpawnPlayer(w, PlayerStart)
	SpawnSign(w)
}

// SpawnEnvironment builds the resettable environment; pieces that survive a reset are not duplicated
func SpawnEnvironment(w *engine.World) {
	if engine.StoreOf[component.EnvRootComponent](w).Count() == 0 {
		root := w.NewEntity()
		engine.With(root, component.NameComponent{Value: "Environment"})
		engine.With(root, component.TransformComponent{})
		engine.With(root, component.EnvRootComponent{})
		rootEntity := engine.With(root, component.ResettableComponent{}).Build()

		clock := w.NewEntity().ChildOf(rootEntity)
		engine.With(clock, component.NameComponent{Value: "Clock"})
		engine.With(clock, component.TransformComponent{Translation: ClockAt})
		engine.With(clock, component.ClockHandComponent{}).Build()
	}

	if len(component.Named(w, parameter.DefaultLeverName)) == 0 {
		lever := w.NewEntity()
		engine.With(lever, component.NameComponent{Value: parameter.DefaultLeverName})
		engine.With(lever, component.TransformComponent{Translation: LeverAt})
		engine.With(lever, component.LeverComponent{})
		engine.With(lever, component.ResettableComponent{OnReset: resetLever}).Build()
	}
}

// resetLever puts the lever back in its initial position
func resetLever(w *engine.World, e core.Entity) {
	engine.StoreOf[component.LeverComponent](w).Update(e, func(l *component.LeverComponent) {
		l.Index = 0
	})
}

// SpawnPlayer creates the player body, replacing nothing if one exists
func SpawnPlayer(w *engine.World, at core.Vec3) core.Entity {
	if players := component.Players(w); len(players) > 0 {
		return players[0]
	}
	eb := w.NewEntity()
	engine.With(eb, component.NameComponent{Value: "Player"})
	engine.With(eb, component.TransformComponent{Translation: at})
	return engine.With(eb, component.PlayerComponent{}).Build()
}

// SpawnSign creates the hidden interact prompt
func SpawnSign(w *engine.World) core.Entity {
	eb := w.NewEntity()
	engine.With(eb, component.NameComponent{Value: "InteractSign"})
	return engine.With(eb, component.InteractSignComponent{Text: parameter.DefaultInteractMessage}).Build()
}
