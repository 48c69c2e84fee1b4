package engine

import (
	"sort"

	"github.com/lixenwraith/timeloop/core"
)

// QueryBuilder finds entities present in every listed store
// Intersection starts from the smallest store; results keep that store's insertion order
type QueryBuilder struct {
	stores   []AnyStore
	executed bool
	results  []core.Entity
}

// Query starts a new query
//
//	ents := w.Query().With(StoreOf[component.Trigger](w)).With(StoreOf[component.Sensor](w)).Execute()
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{
		stores: make([]AnyStore, 0, 4),
	}
}

// With adds a store filter; panics after Execute
func (qb *QueryBuilder) With(store AnyStore) *QueryBuilder {
	if qb.executed {
		panic("query already executed - cannot modify after Execute()")
	}
	qb.stores = append(qb.stores, store)
	return qb
}

// Execute runs the query; repeated calls return the cached result
func (qb *QueryBuilder) Execute() []core.Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true

	if len(qb.stores) == 0 {
		qb.results = make([]core.Entity, 0)
		return qb.results
	}

	sort.SliceStable(qb.stores, func(i, j int) bool {
		return qb.stores[i].Count() < qb.stores[j].Count()
	})

	candidates := qb.stores[0].All()
	for _, store := range qb.stores[1:] {
		filtered := candidates[:0]
		for _, e := range candidates {
			if store.Has(e) {
				filtered = append(filtered, e)
			}
		}
		candidates = filtered
		if len(candidates) == 0 {
			break
		}
	}

	qb.results = candidates
	return qb.results
}
