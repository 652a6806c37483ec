package status

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
)

// Metric keys published by a race session
const (
	KeySteps      = "sim.steps"
	KeyFrames     = "sim.frames"
	KeyLap        = "race.lap"
	KeyResets     = "race.resets"
	KeyBestLap    = "race.best_lap"
	KeySpeedMph   = "car.speed_mph"
	KeySlip       = "car.slip"
	KeyContacts   = "car.rail_contacts"
	KeyAudioState = "audio.state"
	KeyEngineHz   = "audio.engine_hz"
)

// MetricMap lazily allocates one metric per key
// Writers cache the pointer once; only registration takes the lock
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	p, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[key]; ok {
		return p
	}
	p = new(T)
	m.items[key] = p
	return p
}

func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Range visits metrics in key order
func (m *MetricMap[T]) Range(fn func(key string, p *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, m.items[k])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Registry groups metric maps by value type
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Entry is one formatted metric for display
type Entry struct {
	Key   string
	Value string
}

// Snapshot formats every metric, sorted by key
func (r *Registry) Snapshot() []Entry {
	var out []Entry
	r.Ints.Range(func(k string, p *atomic.Int64) {
		out = append(out, Entry{k, strconv.FormatInt(p.Load(), 10)})
	})
	r.Floats.Range(func(k string, p *AtomicFloat) {
		out = append(out, Entry{k, fmt.Sprintf("%.2f", p.Get())})
	})
	r.Strings.Range(func(k string, p *AtomicString) {
		out = append(out, Entry{k, p.Load()})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}
