package audio

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/core"
)

// UnlockState is the audio permission gate
type UnlockState int32

const (
	StateArmed UnlockState = iota
	StateUnlocking
	StateUnlocked
)

func (s UnlockState) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateUnlocking:
		return "unlocking"
	case StateUnlocked:
		return "unlocked"
	}
	return "unknown"
}

// Unlocker runs one unlock attempt at a time off the frame goroutine
// A failed attempt returns to armed so the next interaction retries
type Unlocker struct {
	state   atomic.Int32
	attempt func() error
	run     func(func())
	log     zerolog.Logger

	attempts atomic.Int64
}

// NewUnlocker creates an armed gate; attempt opens the audio device
func NewUnlocker(attempt func() error, log zerolog.Logger) *Unlocker {
	return &Unlocker{attempt: attempt, run: core.Go, log: log}
}

// Signal starts an attempt if armed; safe from any goroutine
func (u *Unlocker) Signal() {
	if !u.state.CompareAndSwap(int32(StateArmed), int32(StateUnlocking)) {
		return
	}
	u.attempts.Add(1)
	u.run(func() {
		if err := u.attempt(); err != nil {
			u.state.CompareAndSwap(int32(StateUnlocking), int32(StateArmed))
			u.log.Warn().Err(err).Msg("Audio unlock failed, will retry on next interaction")
			return
		}
		if u.state.CompareAndSwap(int32(StateUnlocking), int32(StateUnlocked)) {
			u.log.Info().Msg("Audio unlocked")
		}
	})
}

func (u *Unlocker) State() UnlockState {
	return UnlockState(u.state.Load())
}

func (u *Unlocker) Unlocked() bool {
	return u.State() == StateUnlocked
}

// Attempts counts unlock attempts started
func (u *Unlocker) Attempts() int64 {
	return u.attempts.Load()
}

// Disarm returns an unlocked gate to armed, used when the device is released
func (u *Unlocker) Disarm() {
	u.state.CompareAndSwap(int32(StateUnlocked), int32(StateArmed))
}
