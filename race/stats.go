package race

import (
	"sync/atomic"

	"github.com/lixenwraith/dusk-circuit/status"
)

// sessionStats caches registry pointers so the frame path never takes the map lock
type sessionStats struct {
	steps     *atomic.Int64
	frames    *atomic.Int64
	lapNo     *atomic.Int64
	resets    *atomic.Int64
	contacts  *atomic.Int64
	bestLap   *status.AtomicFloat
	speed     *status.AtomicFloat
	slip      *status.AtomicFloat
	engineHz  *status.AtomicFloat
	unlockSt  *status.AtomicString
	available bool
}

func newSessionStats(r *status.Registry) sessionStats {
	if r == nil {
		return sessionStats{}
	}
	st := sessionStats{
		steps:     r.Ints.Get(status.KeySteps),
		frames:    r.Ints.Get(status.KeyFrames),
		lapNo:     r.Ints.Get(status.KeyLap),
		resets:    r.Ints.Get(status.KeyResets),
		contacts:  r.Ints.Get(status.KeyContacts),
		bestLap:   r.Floats.Get(status.KeyBestLap),
		speed:     r.Floats.Get(status.KeySpeedMph),
		slip:      r.Floats.Get(status.KeySlip),
		engineHz:  r.Floats.Get(status.KeyEngineHz),
		unlockSt:  r.Strings.Get(status.KeyAudioState),
		available: true,
	}
	st.lapNo.Store(1)
	return st
}

func (st sessionStats) frame(steps, frames uint64, mph, slip float64, contacts uint64) {
	if !st.available {
		return
	}
	st.steps.Store(int64(steps))
	st.frames.Store(int64(frames))
	st.speed.Set(mph)
	st.slip.Set(slip)
	st.contacts.Store(int64(contacts))
}

func (st sessionStats) lap(next int, best float64) {
	if !st.available {
		return
	}
	st.lapNo.Store(int64(next))
	st.bestLap.Set(best)
}

func (st sessionStats) reset(total int64) {
	if !st.available {
		return
	}
	st.resets.Store(total)
	st.lapNo.Store(1)
}

func (st sessionStats) audio(state string, hz float64) {
	if !st.available {
		return
	}
	st.unlockSt.Store(state)
	st.engineHz.Set(hz)
}
