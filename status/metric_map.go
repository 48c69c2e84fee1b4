package status

import (
	"sort"
	"strings"
	"sync"
)

// MetricMap holds the metrics of one kind, keyed "<namespace>.<name>"
// (timegraph.fired, loop.epoch, events.dropped)
// Producers cache the pointer from Get at construction and write it lock-free each tick
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
	keys  []string // Sorted, rebuilt on registration
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: make(map[string]*T),
	}
}

// Get returns the metric for key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	i := sort.SearchStrings(m.keys, key)
	m.keys = append(m.keys, "")
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = key
	return ptr
}

// Range visits metrics in key order; a non-empty namespace limits the walk
// to keys under "<namespace>."
func (m *MetricMap[T]) Range(namespace string, fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := m.keys
	if namespace != "" {
		prefix := namespace + "."
		lo := sort.SearchStrings(keys, prefix)
		hi := lo
		for hi < len(keys) && strings.HasPrefix(keys[hi], prefix) {
			hi++
		}
		keys = keys[lo:hi]
	}
	for _, k := range keys {
		fn(k, m.items[k])
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
