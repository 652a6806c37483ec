package race

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dusk-circuit/audio"
	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/event"
	"github.com/lixenwraith/dusk-circuit/input"
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/status"
)

const frameDt = 1.0 / 60.0

// scripted replays fixed control vectors, then idles
type scripted struct {
	frames []input.ControlVector
	i      int
	closed int
}

func (r *scripted) Read() input.ControlVector {
	if r.i < len(r.frames) {
		v := r.frames[r.i]
		r.i++
		return v
	}
	return input.ControlVector{}
}

func (r *scripted) Close() { r.closed++ }

type nullSink struct {
	opened, closed, cleared int
	played                  int
}

func (s *nullSink) Open() error { s.opened++; return nil }
func (s *nullSink) Play(v ...beep.Streamer) error {
	s.played += len(v)
	return nil
}
func (s *nullSink) Clear() { s.cleared++ }
func (s *nullSink) Close() { s.closed++ }

type recorder struct {
	events []event.Event
}

func (r *recorder) attach(bus *event.Bus, types ...event.Type) {
	bus.Register(event.HandlerFunc{Types: types, Fn: func(ev event.Event) {
		r.events = append(r.events, ev)
	}})
}

func (r *recorder) count(t event.Type) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	opts.Logger = zerolog.Nop()
	if opts.ID == "" {
		opts.ID = t.Name()
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func run(s *Session, frames int) {
	for i := 0; i < frames; i++ {
		s.Update(FrameContext{Dt: frameDt})
	}
}

func TestAutopilotCompletesFirstLap(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	rec.attach(bus, event.LapCompleted, event.VehicleReset)
	reg := status.NewRegistry()

	s := newSession(t, Options{
		Bus:    bus,
		Status: reg,
		Prefs:  config.Preferences{Quality: config.QualityHigh, SelectedCar: config.CarPremium},
	})
	s.AttachInput(input.NewAggregator(input.WithSource(s.Autopilot())))
	require.NoError(t, s.Spawn())

	run(s, 50*60)
	bus.DispatchAll()

	hud := s.HudState()
	assert.Equal(t, 2, hud.Lap)
	assert.Less(t, hud.LapTime, 10.0, "lap timer restarts at the line")
	assert.InDelta(t, 45.0, hud.LastLap, 2.0)
	assert.Equal(t, hud.LastLap, hud.BestLap)

	require.Equal(t, 1, rec.count(event.LapCompleted))
	var lap *event.LapCompletedPayload
	for _, ev := range rec.events {
		if p, ok := ev.Payload.(*event.LapCompletedPayload); ok {
			lap = p
		}
	}
	require.NotNil(t, lap)
	assert.Equal(t, 1, lap.Lap)
	assert.True(t, lap.Best)
	assert.Equal(t, config.CarBasic, lap.Car, "premium needs unlocking")
	require.Len(t, lap.Splits, parameter.LapSplitSections)
	sum := 0.0
	for _, sp := range lap.Splits {
		sum += sp
	}
	assert.InDelta(t, lap.Time, sum, 1e-9)

	assert.Equal(t, int64(50*60), reg.Ints.Get(status.KeySteps).Load())
	assert.Equal(t, int64(2), reg.Ints.Get(status.KeyLap).Load())
}

func TestUpdateBeforeSpawnIsNoOp(t *testing.T) {
	reg := status.NewRegistry()
	s := newSession(t, Options{Status: reg})
	in := &scripted{frames: []input.ControlVector{{Throttle: 1}}}
	s.AttachInput(in)

	run(s, 10)

	hud := s.HudState()
	assert.False(t, hud.Spawned)
	assert.Equal(t, 1, hud.Lap)
	assert.Zero(t, in.i, "input is not read before spawn")
	assert.Zero(t, reg.Ints.Get(status.KeyFrames).Load())
}

func TestSpawnIsIdempotent(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	rec.attach(bus, event.VehicleReset)

	s := newSession(t, Options{Bus: bus})
	require.NoError(t, s.Spawn())
	require.NoError(t, s.Spawn())
	bus.DispatchAll()

	assert.Equal(t, 1, s.world.Bodies())
	assert.Equal(t, 1, rec.count(event.VehicleReset))
	hud := s.HudState()
	assert.True(t, hud.Spawned)
	assert.Equal(t, 0, hud.Progress)
}

func TestResetReturnsCarToStart(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	rec.attach(bus, event.VehicleReset)
	reg := status.NewRegistry()

	frames := make([]input.ControlVector, 0, 121)
	for i := 0; i < 120; i++ {
		frames = append(frames, input.ControlVector{Throttle: 1})
	}
	frames = append(frames, input.ControlVector{Reset: true})

	s := newSession(t, Options{Bus: bus, Status: reg})
	s.AttachInput(&scripted{frames: frames})
	require.NoError(t, s.Spawn())

	run(s, 120)
	moved := s.HudState()
	assert.Greater(t, moved.SpeedMph, 20.0)
	assert.Greater(t, moved.LapTime, 1.9)

	// The reset frame teleports before stepping, then one idle step runs
	run(s, 1)
	hud := s.HudState()
	start := s.Track().Start().Position
	assert.InDelta(t, start[0], hud.Position[0], 0.01)
	assert.InDelta(t, start[2], hud.Position[2], 0.01)
	assert.Less(t, hud.SpeedMph, 1.0)
	assert.Equal(t, 1, hud.Gear)
	assert.Less(t, hud.LapTime, 0.1)

	bus.DispatchAll()
	assert.Equal(t, 2, rec.count(event.VehicleReset))
	assert.Equal(t, int64(2), reg.Ints.Get(status.KeyResets).Load())
}

func TestDisposeReleasesEverything(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	rec.attach(bus, event.SessionEnded, event.AudioUnlocked)

	sink := &nullSink{}
	synth := audio.NewSynth(sink, zerolog.Nop(), audio.WithUnlockRunner(func(f func()) { f() }))
	in := &scripted{frames: []input.ControlVector{{Throttle: 1}, {Throttle: 1}, {Throttle: 1}}}

	s := newSession(t, Options{Bus: bus, Synth: synth})
	s.AttachInput(in)
	require.NoError(t, s.Spawn())

	// First frame unlocks, later frames start the voices
	run(s, 3)
	require.True(t, synth.Unlocker().Unlocked())
	assert.Equal(t, 2, synth.Nodes())

	s.Dispose()
	s.Dispose()

	assert.Equal(t, 1, in.closed)
	assert.Equal(t, 1, sink.closed)
	assert.Zero(t, synth.Nodes())
	assert.Zero(t, s.world.Bodies())
	assert.False(t, s.HudState().Spawned)

	// No-ops after dispose
	before := in.i
	run(s, 5)
	assert.Equal(t, before, in.i)
	assert.ErrorIs(t, s.Spawn(), ErrDisposed)

	bus.DispatchAll()
	require.Equal(t, 1, rec.count(event.SessionEnded))
	assert.Equal(t, 1, rec.count(event.AudioUnlocked))
	ended := rec.events[len(rec.events)-1].Payload.(*event.SessionEndedPayload)
	assert.Equal(t, uint64(3), ended.Steps)
	assert.Zero(t, ended.Laps)
}

func TestLongFramesAreClamped(t *testing.T) {
	reg := status.NewRegistry()
	s := newSession(t, Options{Status: reg})
	require.NoError(t, s.Spawn())

	s.Update(FrameContext{Dt: 2.0})
	assert.Equal(t, int64(3), reg.Ints.Get(status.KeySteps).Load())
	assert.InDelta(t, parameter.MaxFrameDt, s.HudState().LapTime, 1e-9)

	s.Update(FrameContext{Dt: -1})
	assert.InDelta(t, parameter.MaxFrameDt, s.HudState().LapTime, 1e-9)
}

func TestNewRejectsBadTrack(t *testing.T) {
	_, err := New(Options{Samples: 4, Logger: zerolog.Nop()})
	assert.Error(t, err)
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		quality string
		minimap bool
		overlay bool
	}{
		{config.QualityLow, false, false},
		{config.QualityMedium, true, false},
		{config.QualityHigh, true, true},
		{"ultra", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			p := ProfileFor(tt.quality)
			assert.Equal(t, tt.minimap, p.Minimap)
			assert.Equal(t, tt.overlay, p.StatusOverlay)
			assert.Positive(t, p.FrameInterval)
		})
	}
	assert.Equal(t, parameter.FrameIntervalLow, ProfileFor(config.QualityLow).FrameInterval)
}
