package audio

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

// Service owns the speaker sink and the synth for the process
// Disabled audio leaves Synth nil; callers treat that as silence
type Service struct {
	enabled bool
	rampCap float64
	log     zerolog.Logger

	sink  *SpeakerSink
	synth *Synth
}

// NewService creates the audio service; enabled=false keeps it silent
func NewService(enabled bool, rampCap float64, log zerolog.Logger) *Service {
	return &Service{enabled: enabled, rampCap: rampCap, log: log}
}

func (s *Service) Name() string           { return "audio" }
func (s *Service) Dependencies() []string { return nil }

// Init builds the sink and an armed synth; the device opens on first interaction
func (s *Service) Init() error {
	if !s.enabled {
		s.log.Info().Msg("Audio disabled by config")
		return nil
	}
	s.sink = NewSpeakerSink(parameter.AudioSampleRate, parameter.MasterVolume)
	s.synth = NewSynth(s.sink, s.log, WithRampCap(s.rampCap))
	return nil
}

func (s *Service) Start() error { return nil }

// Stop closes the synth, which releases the speaker
func (s *Service) Stop() error {
	if s.synth != nil {
		s.synth.Close()
	}
	return nil
}

func (s *Service) Disabled() bool {
	return s.synth == nil
}

// Synth returns the synth or nil when disabled
func (s *Service) Synth() *Synth {
	return s.synth
}
