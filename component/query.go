package component

import (
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
)

// Named returns live entities whose NameComponent equals name, in spawn order
func Named(w *engine.World, name string) []core.Entity {
	names := engine.StoreOf[NameComponent](w)
	var out []core.Entity
	for _, e := range names.All() {
		if n, ok := names.Get(e); ok && n.Value == name {
			out = append(out, e)
		}
	}
	return out
}

// Players returns every entity marked as the player
func Players(w *engine.World) []core.Entity {
	return engine.StoreOf[PlayerComponent](w).All()
}
