package happen

import (
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/timeline"
)

// SpawnPortalTo places a resettable portal sensor that jumps the cursor to To
type SpawnPortalTo struct {
	To     timeline.Point `yaml:"to"`
	At     core.Vec3      `yaml:"at"`
	Radius float64        `yaml:"radius,omitempty"`
}

// Apply implements timeline.Action
func (a *SpawnPortalTo) Apply(w *engine.World) {
	radius := a.Radius
	if radius <= 0 {
		radius = parameter.DefaultSensorRadius
	}
	eb := spawnBase(w, "Portal", a.At)
	engine.With(eb, component.SensorComponent{Radius: radius})
	engine.With(eb, component.TriggerStateComponent{})
	e := engine.With(eb, component.PortalToComponent{Dest: a.To}).Build()
	engine.Logger(w).Info("portal spawned", "target", "happens", "entity", e, "to", a.To.String())
}

// SpawnTimed places a named marker that expires after Lifetime of loop time
type SpawnTimed struct {
	Name     string            `yaml:"name"`
	At       core.Vec3         `yaml:"at"`
	Lifetime looptime.LoopTime `yaml:"lifetime"`
}

// Apply implements timeline.Action
func (a *SpawnTimed) Apply(w *engine.World) {
	e := engine.With(spawnBase(w, a.Name, a.At), component.LifetimeComponent{Duration: a.Lifetime}).Build()
	engine.Logger(w).Debug("timed entity spawned", "target", "happens", "entity", e, "name", a.Name, "lifetime", a.Lifetime)
}

// SpawnTrigger places a resettable trigger sensor carrying nested causes
type SpawnTrigger struct {
	Name    string                `yaml:"name,omitempty"`
	At      core.Vec3             `yaml:"at"`
	Radius  float64               `yaml:"radius,omitempty"`
	Oneshot bool                  `yaml:"oneshot,omitempty"`
	Kind    component.TriggerKind `yaml:"kind"`
	Causes  timeline.Records      `yaml:"causes"`
}

// DecodeAction resolves the nested causes through the registry
func (a *SpawnTrigger) DecodeAction(reg *timeline.Registry, node *yaml.Node) error {
	var raw struct {
		Name    string                `yaml:"name"`
		At      core.Vec3             `yaml:"at"`
		Radius  float64               `yaml:"radius"`
		Oneshot bool                  `yaml:"oneshot"`
		Kind    component.TriggerKind `yaml:"kind"`
		Causes  yaml.Node             `yaml:"causes"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	causes, err := reg.DecodeRecords(&raw.Causes)
	if err != nil {
		return err
	}
	*a = SpawnTrigger{
		Name:    raw.Name,
		At:      raw.At,
		Radius:  raw.Radius,
		Oneshot: raw.Oneshot,
		Kind:    raw.Kind,
		Causes:  causes,
	}
	return nil
}

// Apply implements timeline.Action
func (a *SpawnTrigger) Apply(w *engine.World) {
	log := engine.Logger(w)
	causes := a.Causes
	// Spawned triggers own their causes so later content patches cannot reach them
	if reg, ok := engine.GetResource[*timeline.Registry](w.Resources); ok {
		cloned, err := timeline.CloneRecords(reg, a.Causes)
		if err != nil {
			log.Error("trigger causes clone failed", "target", "happens", "error", err)
			return
		}
		causes = cloned
	}

	radius := a.Radius
	if radius <= 0 {
		radius = parameter.DefaultSensorRadius
	}
	name := a.Name
	if name == "" {
		name = "Trigger"
	}
	eb := spawnBase(w, name, a.At)
	engine.With(eb, component.SensorComponent{Radius: radius})
	engine.With(eb, component.TriggerStateComponent{})
	e := engine.With(eb, component.TriggerComponent{Oneshot: a.Oneshot, Causes: causes, Kind: a.Kind}).Build()
	log.Info("trigger spawned", "target", "happens", "entity", e, "name", name, "kind", a.Kind.String(), "causes", len(causes))
}

// Despawn removes every entity named Name with its subtree
type Despawn struct {
	Name string `yaml:"name"`
}

// Apply implements timeline.Action
func (a *Despawn) Apply(w *engine.World) {
	found := component.Named(w, a.Name)
	if len(found) == 0 {
		engine.Logger(w).Debug("despawn: nothing named", "target", "happens", "name", a.Name)
		return
	}
	for _, e := range found {
		w.DespawnRecursive(e)
	}
	engine.Logger(w).Debug("despawned", "target", "happens", "name", a.Name, "count", len(found))
}

// spawnBase starts a resettable entity with name, transform and spawn time
func spawnBase(w *engine.World, name string, at core.Vec3) *engine.EntityBuilder {
	var now looptime.LoopTime
	if loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources); ok {
		now = loop.Curr.Time
	}
	eb := w.NewEntity()
	engine.With(eb, component.NameComponent{Value: name})
	engine.With(eb, component.TransformComponent{Translation: at})
	engine.With(eb, component.SpawnedAtComponent{At: now})
	engine.With(eb, component.ResettableComponent{})
	return eb
}
