package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrDuplicate  = errors.New("service already registered")
	ErrMissingDep = errors.New("service depends on unregistered service")
	ErrCycle      = errors.New("circular service dependency")
)

// Hub owns registered services and runs them in dependency order
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string
	started  []string
}

func NewHub() *Hub {
	return &Hub{services: make(map[string]Service)}
}

// Register adds svc; names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, ok := h.services[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.services[name] = svc
	h.order = nil
	return nil
}

// Get returns a service cast to T
func Get[T Service](h *Hub, name string) (T, bool) {
	h.mu.Lock()
	svc, ok := h.services[name]
	h.mu.Unlock()

	var zero T
	if !ok {
		return zero, false
	}
	typed, ok := svc.(T)
	return typed, ok
}

// InitAll initializes in dependency order, stopping initialized services on failure
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.sort()
		if err != nil {
			return err
		}
		h.order = order
	}

	for i, name := range h.order {
		if err := h.services[name].Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				h.services[h.order[j]].Stop()
			}
			return fmt.Errorf("service %s init: %w", name, err)
		}
	}
	return nil
}

// StartAll starts in dependency order, rolling back on failure
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.started = h.started[:0]
	for _, name := range h.order {
		if err := h.services[name].Start(); err != nil {
			for j := len(h.started) - 1; j >= 0; j-- {
				h.services[h.started[j]].Stop()
			}
			h.started = h.started[:0]
			return fmt.Errorf("service %s start: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops started services in reverse order and returns the joined errors
func (h *Hub) StopAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for i := len(h.started) - 1; i >= 0; i-- {
		if err := h.services[h.started[i]].Stop(); err != nil {
			errs = append(errs, fmt.Errorf("service %s stop: %w", h.started[i], err))
		}
	}
	h.started = nil
	return errors.Join(errs...)
}

// Order returns the resolved init order
func (h *Hub) Order() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.order...)
}

// sort is Kahn's algorithm with names sorted at every level for a stable order
func (h *Hub) sort() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string)
	for name, svc := range h.services {
		inDegree[name] += 0
		for _, dep := range svc.Dependencies() {
			if _, ok := h.services[dep]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrMissingDep, name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, d := range inDegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	result := make([]string, 0, len(h.services))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		result = append(result, name)

		var next []string
		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		sort.Strings(next)
		ready = append(ready, next...)
	}

	if len(result) != len(h.services) {
		return nil, ErrCycle
	}
	return result, nil
}
