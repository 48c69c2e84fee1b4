package status

import (
	"strconv"
	"sync/atomic"
)

// Registry is the telemetry facade shared by the scheduler and the HUD
// Producers cache metric pointers at construction; the tick loop writes atomics directly
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Metric is a rendered key/value pair
type Metric struct {
	Key   string
	Value string
}

// Snapshot renders metrics as text, ints first, then floats, then strings, each in key order
// With namespaces, only those namespaces are rendered, in the order given
func (r *Registry) Snapshot(namespaces ...string) []Metric {
	if len(namespaces) == 0 {
		namespaces = []string{""}
	}
	out := make([]Metric, 0, r.TotalCount())
	for _, ns := range namespaces {
		r.Ints.Range(ns, func(key string, v *atomic.Int64) {
			out = append(out, Metric{Key: key, Value: strconv.FormatInt(v.Load(), 10)})
		})
		r.Floats.Range(ns, func(key string, v *AtomicFloat) {
			out = append(out, Metric{Key: key, Value: strconv.FormatFloat(v.Get(), 'f', 2, 64)})
		})
		r.Strings.Range(ns, func(key string, v *AtomicString) {
			out = append(out, Metric{Key: key, Value: v.Load()})
		})
	}
	return out
}

// TotalCount returns the number of metrics across all maps
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}
