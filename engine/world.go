package engine

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/event"
)

// World contains entities, their components in typed stores, the entity
// hierarchy, global resources and the ordered system list
// All mutation happens on the tick thread; store locks only guard cross-thread readers (render)
type World struct {
	mu           sync.RWMutex
	nextEntityID core.Entity
	alive        map[core.Entity]struct{}

	stores     map[reflect.Type]AnyStore
	storeOrder []AnyStore

	parent   map[core.Entity]core.Entity
	children map[core.Entity][]core.Entity

	Resources *ResourceStore

	eventQueue *event.EventQueue
	frame      int64

	systems     []System
	updateMutex sync.Mutex
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		nextEntityID: 1,
		alive:        make(map[core.Entity]struct{}),
		stores:       make(map[reflect.Type]AnyStore),
		parent:       make(map[core.Entity]core.Entity),
		children:     make(map[core.Entity][]core.Entity),
		Resources:    NewResourceStore(),
	}
}

// StoreOf returns the store for component type T, creating it on first use
func StoreOf[T any](w *World) *Store[T] {
	t := reflect.TypeFor[T]()

	w.mu.RLock()
	s, ok := w.stores[t]
	w.mu.RUnlock()
	if ok {
		return s.(*Store[T])
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.stores[t]; ok {
		return s.(*Store[T])
	}
	store := NewStore[T]()
	w.stores[t] = store
	w.storeOrder = append(w.storeOrder, store)
	return store
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextEntityID
	w.nextEntityID++
	w.alive[id] = struct{}{}
	return id
}

// Alive reports whether the entity exists
func (w *World) Alive(e core.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.alive[e]
	return ok
}

// EntityCount returns the number of live entities
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.alive)
}

// SetParent attaches child under parent, detaching it from any previous parent
func (w *World) SetParent(child, parent core.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.detachLocked(child)
	if parent == core.NoEntity {
		return
	}
	w.parent[child] = parent
	w.children[parent] = append(w.children[parent], child)
}

// Parent returns the entity's parent, NoEntity for roots
func (w *World) Parent(e core.Entity) core.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent[e]
}

// Children returns a snapshot of the entity's direct children
func (w *World) Children(e core.Entity) []core.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	kids := w.children[e]
	out := make([]core.Entity, len(kids))
	copy(out, kids)
	return out
}

// DestroyEntity removes the entity and its components; children are reparented to the root
func (w *World) DestroyEntity(e core.Entity) {
	w.removeFromAllStores(e)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.detachLocked(e)
	for _, c := range w.children[e] {
		delete(w.parent, c)
	}
	delete(w.children, e)
	delete(w.alive, e)
}

// DespawnRecursive destroys the entity and its whole subtree, leaves first
func (w *World) DespawnRecursive(e core.Entity) {
	for _, c := range w.Children(e) {
		w.DespawnRecursive(c)
	}
	w.DestroyEntity(e)
}

// Clear removes all entities and components
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextEntityID = 1
	w.alive = make(map[core.Entity]struct{})
	w.parent = make(map[core.Entity]core.Entity)
	w.children = make(map[core.Entity][]core.Entity)
	for _, s := range w.storeOrder {
		s.Clear()
	}
}

func (w *World) removeFromAllStores(e core.Entity) {
	w.mu.RLock()
	stores := make([]AnyStore, len(w.storeOrder))
	copy(stores, w.storeOrder)
	w.mu.RUnlock()

	for _, s := range stores {
		s.Remove(e)
	}
}

func (w *World) detachLocked(child core.Entity) {
	p, ok := w.parent[child]
	if !ok {
		return
	}
	delete(w.parent, child)
	kids := w.children[p]
	for i, c := range kids {
		if c == child {
			w.children[p] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
}

// AddSystem registers a system, keeping the list ordered by priority
// Systems with equal priority keep registration order
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
}

// Systems returns a copy of the registered systems in run order
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes fn while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Update runs all systems in priority order under the update lock
func (w *World) Update(dt time.Duration) {
	w.RunSafe(func() {
		w.UpdateLocked(dt)
	})
}

// UpdateLocked runs all systems assuming the caller holds the update lock
func (w *World) UpdateLocked(dt time.Duration) {
	for _, system := range w.Systems() {
		system.Update(w, dt)
	}
}

// Frame returns the current tick index
func (w *World) Frame() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

func (w *World) advanceFrame() {
	w.mu.Lock()
	w.frame++
	w.mu.Unlock()
}

// SetEventQueue wires the queue PushEvent writes to
func (w *World) SetEventQueue(q *event.EventQueue) {
	w.eventQueue = q
}

// EventQueue returns the wired queue, nil before wiring
func (w *World) EventQueue() *event.EventQueue {
	return w.eventQueue
}

// PushEvent emits an event stamped with the current frame; dropped before wiring
func (w *World) PushEvent(eventType event.EventType, payload any) {
	if w.eventQueue == nil {
		return
	}
	w.eventQueue.Push(event.GameEvent{
		Type:    eventType,
		Payload: payload,
		Frame:   w.Frame(),
	})
}
