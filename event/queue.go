package event

import (
	"sync/atomic"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

// Queue is a lock-free MPSC ring of events
//   - Push: CAS on tail, any goroutine
//   - Consume: single consumer
//   - published flags guard against reading half-written slots
//
// When full, the oldest unread events are overwritten and counted as dropped
type Queue struct {
	events    [parameter.EventQueueSize]Event
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
	dropped   atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends ev without blocking
func (q *Queue) Push(ev Event) {
	for {
		tail := q.tail.Load()
		next := tail + 1
		if !q.tail.CompareAndSwap(tail, next) {
			continue
		}
		idx := tail & parameter.EventBufferMask
		q.events[idx] = ev
		q.published[idx].Store(true)

		head := q.head.Load()
		if next-head > parameter.EventQueueSize {
			if q.head.CompareAndSwap(head, next-parameter.EventQueueSize) {
				q.dropped.Add(next - parameter.EventQueueSize - head)
			}
		}
		return
	}
}

// Consume returns pending events in FIFO order
func (q *Queue) Consume() []Event {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail == head {
			return nil
		}

		avail := tail - head
		if avail > parameter.EventQueueSize {
			avail = parameter.EventQueueSize
			head = tail - parameter.EventQueueSize
		}

		out := make([]Event, 0, avail)
		for i := uint64(0); i < avail; i++ {
			idx := (head + i) & parameter.EventBufferMask
			if !q.published[idx].Load() {
				break
			}
			out = append(out, q.events[idx])
			q.events[idx] = Event{}
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(head, head+uint64(len(out))) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len is the approximate pending count
func (q *Queue) Len() int {
	head, tail := q.head.Load(), q.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, parameter.EventQueueSize))
}

// Dropped counts events overwritten before they were consumed
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
