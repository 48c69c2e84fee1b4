package engine

import "github.com/lixenwraith/timeloop/core"

// AnyStore provides type-erased operations so World can manage every store
// uniformly, e.g. when destroying an entity without knowing its components
type AnyStore interface {
	Remove(e core.Entity)
	Has(e core.Entity) bool
	Count() int
	Clear()
	All() []core.Entity
}
