package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/dusk-circuit/core"
)

// Handler consumes routed events on the dispatch goroutine
type Handler interface {
	HandleEvent(ev Event)
	EventTypes() []Type
}

// HandlerFunc adapts a function to Handler for the listed types
type HandlerFunc struct {
	Types []Type
	Fn    func(Event)
}

func (h HandlerFunc) HandleEvent(ev Event) { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []Type   { return h.Types }

// Router fans queued events out to handlers by type, in registration order
type Router struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	queue    *Queue
}

func NewRouter(queue *Queue) *Router {
	return &Router{handlers: make(map[Type][]Handler), queue: queue}
}

// Register subscribes h to its declared types
func (r *Router) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// HandlerCount returns the handlers registered for t
func (r *Router) HandlerCount(t Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[t])
}

// DispatchAll drains the queue synchronously; returns events dispatched
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
	return len(events)
}

// Bus pairs a queue with a router and a wake channel
// Publish never blocks; Run dispatches on its own goroutine
type Bus struct {
	*Router
	queue *Queue
	wake  chan struct{}
	done  chan struct{}

	started atomic.Bool
}

func NewBus() *Bus {
	q := NewQueue()
	return &Bus{
		Router: NewRouter(q),
		queue:  q,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Publish enqueues ev and wakes the dispatcher
func (b *Bus) Publish(ev Event) {
	b.queue.Push(ev)
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Start runs the dispatcher until ctx is cancelled, then drains what is left
// Only the first call starts a dispatcher
func (b *Bus) Start(ctx context.Context) {
	if !b.started.CompareAndSwap(false, true) {
		return
	}
	core.Go(func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				b.DispatchAll()
				return
			case <-b.wake:
				b.DispatchAll()
			}
		}
	})
}

// Wait blocks until the dispatcher has exited; it returns at once if Start was never called
func (b *Bus) Wait() {
	if !b.started.Load() {
		return
	}
	<-b.done
}

// Queue exposes the underlying ring
func (b *Bus) Queue() *Queue {
	return b.queue
}
