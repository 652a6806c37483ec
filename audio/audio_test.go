package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

type fakeSink struct {
	openErrs []error
	opens    int
	playing  []beep.Streamer
	cleared  int
	closed   bool
}

func (f *fakeSink) Open() error {
	f.opens++
	if len(f.openErrs) > 0 {
		err := f.openErrs[0]
		f.openErrs = f.openErrs[1:]
		return err
	}
	return nil
}

func (f *fakeSink) Play(s ...beep.Streamer) error {
	f.playing = append(f.playing, s...)
	return nil
}

func (f *fakeSink) Clear() {
	f.cleared++
	f.playing = nil
}

func (f *fakeSink) Close() { f.closed = true }

func syncRun(fn func()) { fn() }

func newTestSynth(sink *fakeSink) *Synth {
	return NewSynth(sink, zerolog.Nop(), WithUnlockRunner(syncRun))
}

var driving = Frame{SpeedMph: 60, Throttle: 1, LateralSlip: 8, Dt: 1.0 / 60}

func TestUpdateBeforeUnlockCreatesNothing(t *testing.T) {
	sink := &fakeSink{openErrs: []error{errors.New("no device"), errors.New("no device")}}
	s := newTestSynth(sink)

	assert.NotPanics(t, func() { s.Update(driving) })
	assert.Equal(t, StateArmed, s.Unlocker().State(), "failed attempt re-arms")
	assert.Empty(t, sink.playing)
	assert.Equal(t, 0, s.Nodes())

	s.Update(driving)
	assert.Equal(t, 2, sink.opens, "each update retries while armed")
	assert.Empty(t, sink.playing)

	s.Update(driving)
	assert.Equal(t, StateUnlocked, s.Unlocker().State())
	assert.Empty(t, sink.playing, "the unlocking update itself stays silent")

	s.Update(driving)
	assert.Len(t, sink.playing, 2)
	assert.Equal(t, 2, s.Nodes())
}

func TestUnlockSignalIsSingleFlight(t *testing.T) {
	var pending []func()
	u := NewUnlocker(func() error { return nil }, zerolog.Nop())
	u.run = func(fn func()) { pending = append(pending, fn) }

	u.Signal()
	u.Signal()
	u.Signal()
	assert.Equal(t, StateUnlocking, u.State())
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), u.Attempts())

	pending[0]()
	assert.True(t, u.Unlocked())
	u.Signal()
	assert.Len(t, pending, 1, "no attempts once unlocked")
}

func TestIdleFrameDoesNotStartVoices(t *testing.T) {
	sink := &fakeSink{}
	s := newTestSynth(sink)
	s.Update(Frame{Dt: 1.0 / 60})
	require.True(t, s.Unlocker().Unlocked())

	for i := 0; i < 30; i++ {
		s.Update(Frame{SpeedMph: 0.5, Throttle: 0.01, Dt: 1.0 / 60})
	}
	assert.Empty(t, sink.playing)
	assert.Equal(t, Levels{}, s.Levels())
}

func TestGainsRampWithinCap(t *testing.T) {
	sink := &fakeSink{}
	s := newTestSynth(sink)
	s.Update(driving)

	target := ComputeTargets(driving, 0)
	prev := s.Levels()
	for i := 0; i < 120; i++ {
		s.Update(driving)
		cur := s.Levels()
		assert.LessOrEqual(t, math.Abs(cur.EngineGain-prev.EngineGain), parameter.AudioRampCap+1e-12)
		assert.LessOrEqual(t, math.Abs(cur.SkidGain-prev.SkidGain), parameter.AudioRampCap+1e-12)
		prev = cur
	}
	assert.InDelta(t, target.EngineGain, prev.EngineGain, 1e-3)
	assert.InDelta(t, target.SkidGain, prev.SkidGain, 1e-3)
	assert.InDelta(t, target.BandHz, prev.BandHz, 1)

	// Large dt still cannot jump
	before := s.Levels()
	s.Update(Frame{Dt: 1})
	after := s.Levels()
	assert.InDelta(t, before.EngineGain-parameter.AudioRampCap, after.EngineGain, 1e-12)
}

func TestReleaseFadesToSilence(t *testing.T) {
	sink := &fakeSink{}
	s := newTestSynth(sink)
	s.Update(driving)
	for i := 0; i < 60; i++ {
		s.Update(driving)
	}
	require.Greater(t, s.Levels().EngineGain, 0.0)

	for i := 0; i < 120; i++ {
		s.Update(Frame{Dt: 1.0 / 60})
	}
	assert.InDelta(t, 0, s.Levels().EngineGain, 1e-6)
	assert.InDelta(t, 0, s.Levels().SkidGain, 1e-6)
	assert.Len(t, sink.playing, 2, "voices stay allocated while idle")
}

func TestComputeTargets(t *testing.T) {
	tg := ComputeTargets(Frame{SpeedMph: 160, Throttle: -1}, 0)
	// wobble term at t=0 is 0.5
	wantHz := 7800.0 / 60 * 1.1 * (0.96 + 0.015)
	assert.InDelta(t, wantHz, tg.EngineHz, 1e-9)
	assert.InDelta(t, 0.01+0.12+0.035, tg.EngineGain, 1e-12)
	assert.Equal(t, 0.0, tg.SkidGain)
	assert.Equal(t, 250.0, tg.BandHz)
	assert.True(t, tg.Active)

	standstill := ComputeTargets(Frame{LateralSlip: 20}, 0)
	assert.Equal(t, 0.0, standstill.SkidGain, "no skid without speed")
	assert.True(t, standstill.Active)

	full := ComputeTargets(Frame{SpeedMph: 40, LateralSlip: 13.7}, 0)
	assert.InDelta(t, 0.32, full.SkidGain, 1e-12)
	assert.InDelta(t, 2850, full.BandHz, 1e-9)

	over := ComputeTargets(Frame{SpeedMph: 500}, 0)
	assert.InDelta(t, 0.01+0.035, over.EngineGain, 1e-12, "speed clamps at 160")
}

func TestCloseReleasesEverything(t *testing.T) {
	sink := &fakeSink{}
	s := newTestSynth(sink)
	s.Update(driving)
	s.Update(driving)
	require.Len(t, sink.playing, 2)

	s.Close()
	assert.Empty(t, sink.playing)
	assert.True(t, sink.closed)
	assert.Equal(t, 0, s.Nodes())

	assert.NotPanics(t, func() {
		s.Update(driving)
		s.Close()
	})
	assert.Equal(t, 1, sink.cleared)
}

func TestVoicesStream(t *testing.T) {
	var p params
	p.engineHz.Set(110)
	p.harmonicHz.Set(221.1)
	p.engineGain.Set(0.2)
	p.skidGain.Set(0.3)
	p.bandHz.Set(1200)

	buf := make([][2]float64, 512)
	for _, v := range []beep.Streamer{newEngineVoice(&p, 48000), newSkidVoice(&p, 48000, 1)} {
		for round := 0; round < 3; round++ {
			n, ok := v.Stream(buf)
			require.True(t, ok)
			require.Equal(t, len(buf), n)
		}
		peak := 0.0
		for _, s := range buf {
			assert.Equal(t, s[0], s[1])
			peak = math.Max(peak, math.Abs(s[0]))
		}
		assert.Greater(t, peak, 0.0)
		assert.LessOrEqual(t, peak, 1.0)
		assert.NoError(t, v.Err())
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(false, 0, zerolog.Nop())
	require.NoError(t, svc.Init())
	assert.True(t, svc.Disabled())
	assert.Nil(t, svc.Synth())
	assert.NoError(t, svc.Stop())
}
