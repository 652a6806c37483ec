package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tick is one display frame handed to the frame callback
type Tick struct {
	Dt    float64 // race seconds since the previous frame
	Now   time.Time
	Frame uint64
}

// FrameFunc runs one frame synchronously
type FrameFunc func(Tick)

// Loop calls a frame function at a fixed display cadence on the goroutine that runs it
// Paused race time produces no frames; the first frame after resume excludes the pause
type Loop struct {
	clock    *PausableClock
	interval time.Duration
	frame    FrameFunc

	frames   atomic.Uint64
	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewLoop creates a loop; Run must be called to start it
func NewLoop(clock *PausableClock, interval time.Duration, frame FrameFunc) *Loop {
	return &Loop{
		clock:    clock,
		interval: interval,
		frame:    frame,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks, invoking the frame function until Stop
// Frames that fall more than two intervals behind are dropped rather than replayed
func (l *Loop) Run() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	defer close(l.done)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	last := l.clock.Now()
	deadline := l.clock.source.Now().Add(l.interval)

	for {
		select {
		case <-l.stopChan:
			return
		case <-timer.C:
		}

		if l.clock.IsPaused() {
			last = l.clock.Now()
			deadline = l.clock.source.Now().Add(l.interval)
			timer.Reset(l.interval * 2)
			continue
		}

		now := l.clock.Now()
		n := l.frames.Add(1)
		l.frame(Tick{
			Dt:    now.Sub(last).Seconds(),
			Now:   now,
			Frame: n,
		})
		last = now

		wall := l.clock.source.Now()
		deadline = deadline.Add(l.interval)
		if wall.Sub(deadline) > l.interval*2 {
			deadline = wall.Add(l.interval)
		}
		sleep := deadline.Sub(wall)
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}

// Stop asks the loop to exit after the current frame
// Safe to call from any goroutine, including the frame callback, and more than once
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}

// Done is closed once Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Frames returns the number of frames run
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}
