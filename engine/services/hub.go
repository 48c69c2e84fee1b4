package services

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Hub starts services in dependency order and stops them in reverse
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	optional map[string]bool
	started  []string // Services that completed Start(), for rollback
	log      *slog.Logger
}

// NewHub creates an empty hub; a nil logger uses slog.Default
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		services: make(map[string]Service),
		optional: make(map[string]bool),
		log:      log.With("target", "engine"),
	}
}

// Register adds a service whose start failure aborts StartAll
func (h *Hub) Register(svc Service) error {
	return h.add(svc, false)
}

// RegisterOptional adds a service whose start failure is logged and skipped
func (h *Hub) RegisterOptional(svc Service) error {
	return h.add(svc, true)
}

func (h *Hub) add(svc Service, optional bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.services[name] = svc
	h.optional[name] = optional
	return nil
}

// Started reports whether name is currently running
func (h *Hub) Started(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, n := range h.started {
		if n == name {
			return true
		}
	}
	return false
}

// StartAll starts every service in topological order
// On a required failure, already-started services are stopped in reverse order
// A service depending on a skipped optional service is treated as failed
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order, err := h.topologicalSort()
	if err != nil {
		return err
	}

	h.started = nil
	skipped := make(map[string]bool)
	for _, name := range order {
		svc := h.services[name]
		err := h.missingDependency(svc, skipped)
		if err == nil {
			err = svc.Start()
		}
		if err == nil {
			h.started = append(h.started, name)
			h.log.Debug("service started", "service", name)
			continue
		}
		if h.optional[name] {
			skipped[name] = true
			h.log.Warn("optional service unavailable", "service", name, "error", err)
			continue
		}
		h.stopStarted()
		return fmt.Errorf("service %s start failed: %w", name, err)
	}
	return nil
}

// StopAll stops started services in reverse order, logging failures
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopStarted()
}

func (h *Hub) stopStarted() {
	for i := len(h.started) - 1; i >= 0; i-- {
		name := h.started[i]
		if err := h.services[name].Stop(); err != nil {
			h.log.Error("service stop failed", "service", name, "error", err)
		}
	}
	h.started = nil
}

func (h *Hub) missingDependency(svc Service, skipped map[string]bool) error {
	for _, dep := range svc.Dependencies() {
		if skipped[dep] {
			return fmt.Errorf("dependency %s unavailable", dep)
		}
	}
	return nil
}

// topologicalSort computes start order using Kahn's algorithm
// Ties are broken by name so the order is stable across runs
func (h *Hub) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string) // dep -> services that depend on it

	for name := range h.services {
		inDegree[name] = 0
	}
	for name, svc := range h.services {
		for _, dep := range svc.Dependencies() {
			if _, exists := h.services[dep]; !exists {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}

	result := make([]string, 0, len(h.services))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		result = append(result, name)

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(h.services) {
		return nil, fmt.Errorf("circular dependency detected in services")
	}
	return result, nil
}
