package engine

import (
	"reflect"
	"sync"
)

// ResourceStore holds world singletons keyed by their static type
// Keying by the type parameter lets interface-typed resources round-trip
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

// NewResourceStore creates an empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource registers or replaces the resource of type T
// Pointer types are expected for mutable resources
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[reflect.TypeFor[T]()] = resource
}

// GetResource retrieves the resource of type T
func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	val, ok := rs.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGetResource retrieves the resource of type T, panicking when absent
// Use only for resources installed during bootstrap
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic("required resource not found: " + reflect.TypeFor[T]().String())
	}
	return res
}

// RemoveResource deletes the resource of type T
func RemoveResource[T any](rs *ResourceStore) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.resources, reflect.TypeFor[T]())
}
