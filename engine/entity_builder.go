package engine

import "github.com/lixenwraith/timeloop/core"

// EntityBuilder constructs an entity with components in one chain
//
//	e := With(With(w.NewEntity(), component.Name{Value: "lever"}), component.Lever{}).Build()
type EntityBuilder struct {
	world  *World
	entity core.Entity
	built  bool
}

// NewEntity reserves an entity ID and returns a builder for it
func (w *World) NewEntity() *EntityBuilder {
	return &EntityBuilder{
		world:  w,
		entity: w.CreateEntity(),
	}
}

// With adds a component of type T to the entity being built; panics after Build
func With[T any](eb *EntityBuilder, component T) *EntityBuilder {
	if eb.built {
		panic("entity already built - cannot add components after Build()")
	}
	StoreOf[T](eb.world).Set(eb.entity, component)
	return eb
}

// ChildOf attaches the entity under parent
func (eb *EntityBuilder) ChildOf(parent core.Entity) *EntityBuilder {
	if eb.built {
		panic("entity already built - cannot reparent via builder after Build()")
	}
	eb.world.SetParent(eb.entity, parent)
	return eb
}

// Build finalizes construction and returns the entity
func (eb *EntityBuilder) Build() core.Entity {
	eb.built = true
	return eb.entity
}
