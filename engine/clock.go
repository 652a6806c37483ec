package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// TimeSource supplies wall-clock readings
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// SystemTime is the monotonic wall clock
var SystemTime TimeSource = systemTime{}

// PausableClock is race time: wall time minus every paused interval
type PausableClock struct {
	mu sync.RWMutex

	source    TimeSource
	start     time.Time
	paused    atomic.Bool
	pausedAt  time.Time
	pausedFor time.Duration
}

// NewPausableClock starts a clock at the source's current time
func NewPausableClock(source TimeSource) *PausableClock {
	if source == nil {
		source = SystemTime
	}
	return &PausableClock{
		source: source,
		start:  source.Now(),
	}
}

// Now returns race time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused.Load() {
		return pc.pausedAt.Add(-pc.pausedFor)
	}
	return pc.source.Now().Add(-pc.pausedFor)
}

// Elapsed returns race time since the clock started
func (pc *PausableClock) Elapsed() time.Duration {
	return pc.Now().Sub(pc.start)
}

// Pause freezes race time
func (pc *PausableClock) Pause() {
	if pc.paused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		pc.pausedAt = pc.source.Now()
		pc.mu.Unlock()
	}
}

// Resume continues race time, discarding the paused interval
func (pc *PausableClock) Resume() {
	if pc.paused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		pc.pausedFor += pc.source.Now().Sub(pc.pausedAt)
		pc.pausedAt = time.Time{}
		pc.mu.Unlock()
	}
}

// Toggle flips the pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.paused.Load() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

func (pc *PausableClock) IsPaused() bool {
	return pc.paused.Load()
}
