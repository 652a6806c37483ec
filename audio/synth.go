// Package audio synthesizes engine and skid sound from the car's state
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

// Frame is the per-frame car state the synth reacts to
type Frame struct {
	SpeedMph    float64
	Throttle    float64 // smoothed drive, sign ignored
	LateralSlip float64 // m/s
	Dt          float64
}

// Levels are the ramped parameters currently heard
type Levels struct {
	EngineHz   float64
	HarmonicHz float64
	EngineGain float64
	SkidGain   float64
	BandHz     float64
}

// Targets are the unramped parameters a frame asks for
type Targets struct {
	EngineHz   float64
	EngineGain float64
	SkidGain   float64
	BandHz     float64
	Active     bool
}

// Synth ramps voice parameters toward frame-derived targets
// Voices exist only after the unlocker opens the sink and the car first wants sound
// Update and Close run on the frame goroutine
type Synth struct {
	sink     Sink
	unlocker *Unlocker
	rate     beep.SampleRate
	rampCap  float64
	log      zerolog.Logger

	p       params
	levels  Levels
	clock   float64
	started bool
	failed  bool
	closed  bool
	nodes   int
}

// SynthOption configures a Synth
type SynthOption func(*Synth)

// WithRampCap overrides the per-update gain limit
func WithRampCap(c float64) SynthOption {
	return func(s *Synth) {
		if c > 0 {
			s.rampCap = c
		}
	}
}

// WithUnlockRunner replaces the goroutine launcher used for unlock attempts
func WithUnlockRunner(run func(func())) SynthOption {
	return func(s *Synth) { s.unlocker.run = run }
}

func WithSampleRate(rate int) SynthOption {
	return func(s *Synth) { s.rate = beep.SampleRate(rate) }
}

// NewSynth creates an armed synth on sink
func NewSynth(sink Sink, log zerolog.Logger, opts ...SynthOption) *Synth {
	s := &Synth{
		sink:    sink,
		rate:    beep.SampleRate(parameter.AudioSampleRate),
		rampCap: parameter.AudioRampCap,
		log:     log,
	}
	s.unlocker = NewUnlocker(sink.Open, log)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unlocker exposes the permission gate so input can signal interactions
func (s *Synth) Unlocker() *Unlocker {
	return s.unlocker
}

// Levels returns the ramped parameters
func (s *Synth) Levels() Levels {
	return s.levels
}

// Nodes counts live synthesis streamers
func (s *Synth) Nodes() int {
	return s.nodes
}

// ComputeTargets maps a frame to raw voice targets at synth time t
func ComputeTargets(f Frame, t float64) Targets {
	mph := vmath.Clamp(f.SpeedMph, 0, parameter.EngineMaxMph)
	thr := vmath.Clamp01(math.Abs(f.Throttle))

	tg := Targets{
		Active: mph > parameter.AudioActiveMph ||
			thr > parameter.AudioActiveThrottle ||
			f.LateralSlip > parameter.AudioActiveSlip,
	}

	rpm := parameter.EngineIdleRPM + mph/parameter.EngineMaxMph*parameter.EngineRPMRange
	wobble := 0.5 + 0.5*math.Sin(t*parameter.EngineWobbleRate)
	tg.EngineHz = rpm / 60 *
		(parameter.EngineThrottleBase + parameter.EngineThrottleGain*thr) *
		(parameter.EngineWobbleBase + parameter.EngineWobbleDepth*wobble)
	tg.EngineGain = parameter.EngineGainBase + parameter.EngineGainThrottle*thr +
		parameter.EngineGainSpeed*mph/parameter.EngineMaxMph

	skid := vmath.Clamp01((f.LateralSlip-parameter.SkidSlipThreshold)/parameter.SkidSlipRange) *
		vmath.Clamp01(mph/parameter.SkidFullSpeedMph)
	tg.SkidGain = parameter.SkidGainMax * skid
	tg.BandHz = parameter.SkidBandBase + parameter.SkidBandRange*skid
	return tg
}

// Update ramps toward the frame's targets; before unlock it only nudges an unlock attempt
func (s *Synth) Update(f Frame) {
	if s.closed || s.failed {
		return
	}
	if !s.unlocker.Unlocked() {
		s.unlocker.Signal()
		return
	}

	dt := max(0, f.Dt)
	s.clock += dt
	tg := ComputeTargets(f, s.clock)

	if !tg.Active {
		if s.started {
			s.levels.EngineGain = s.rampGain(s.levels.EngineGain, 0, parameter.RampRelease, dt)
			s.levels.SkidGain = s.rampGain(s.levels.SkidGain, 0, parameter.RampRelease, dt)
			s.publish()
		}
		return
	}

	if !s.started && !s.start() {
		return
	}

	s.levels.EngineHz = vmath.DampTau(s.levels.EngineHz, tg.EngineHz, parameter.RampFrequency, dt)
	s.levels.HarmonicHz = vmath.DampTau(s.levels.HarmonicHz, tg.EngineHz*parameter.EngineHarmonicRatio, parameter.RampFrequency, dt)
	s.levels.EngineGain = s.rampGain(s.levels.EngineGain, tg.EngineGain, parameter.RampEngine, dt)
	s.levels.SkidGain = s.rampGain(s.levels.SkidGain, tg.SkidGain, parameter.RampSkid, dt)
	s.levels.BandHz = vmath.DampTau(s.levels.BandHz, tg.BandHz, parameter.RampBand, dt)
	s.publish()
}

// rampGain approaches target with time constant tau, never moving more than rampCap
func (s *Synth) rampGain(cur, target, tau, dt float64) float64 {
	return vmath.StepToward(cur, vmath.DampTau(cur, target, tau, dt), s.rampCap)
}

func (s *Synth) start() bool {
	s.levels = Levels{
		EngineHz:   parameter.EngineStartHz,
		HarmonicHz: parameter.EngineStartHz * 2,
		BandHz:     parameter.SkidStartHz,
	}
	s.publish()

	voices := []beep.Streamer{
		newEngineVoice(&s.p, s.rate),
		newSkidVoice(&s.p, s.rate, time.Now().UnixNano()),
	}
	if err := s.sink.Play(voices...); err != nil {
		s.failed = true
		s.log.Warn().Err(err).Msg("Audio voices failed to start, continuing silent")
		return false
	}
	s.nodes = len(voices)
	s.started = true
	s.log.Debug().Int("voices", s.nodes).Msg("Audio voices started")
	return true
}

func (s *Synth) publish() {
	s.p.engineHz.Set(s.levels.EngineHz)
	s.p.harmonicHz.Set(s.levels.HarmonicHz)
	s.p.engineGain.Set(s.levels.EngineGain)
	s.p.skidGain.Set(s.levels.SkidGain)
	s.p.bandHz.Set(s.levels.BandHz)
}

// Close stops every voice and releases the sink before returning
func (s *Synth) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.started {
		s.sink.Clear()
	}
	s.sink.Close()
	s.started = false
	s.nodes = 0
	s.unlocker.Disarm()
}
