package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

var (
	ErrSinkClosed = errors.New("audio sink closed")
	ErrNotOpen    = errors.New("audio device not open")
)

// Sink is an output device that plays streamers until cleared
type Sink interface {
	// Open acquires the device; called from the unlock goroutine
	Open() error
	Play(streamers ...beep.Streamer) error
	// Clear stops every playing streamer synchronously
	Clear()
	Close()
}

// SpeakerSink plays through the beep speaker via one mixer
type SpeakerSink struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	volume *effects.Volume
	open   bool
	closed bool
}

// NewSpeakerSink creates a sink at the given sample rate and master gain
func NewSpeakerSink(rate int, master float64) *SpeakerSink {
	mixer := &beep.Mixer{}
	return &SpeakerSink{
		rate:  beep.SampleRate(rate),
		mixer: mixer,
		volume: &effects.Volume{
			Streamer: mixer,
			Base:     2,
			Volume:   math.Log2(max(master, 1e-6)),
		},
	}
}

// Open initializes the speaker; repeated opens are no-ops
func (s *SpeakerSink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	if s.open {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(s.volume)
	s.open = true
	return nil
}

func (s *SpeakerSink) Play(streamers ...beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrNotOpen
	}
	speaker.Lock()
	s.mixer.Add(streamers...)
	speaker.Unlock()
	return nil
}

func (s *SpeakerSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// Close clears the mixer and releases the device
func (s *SpeakerSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if !s.open {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.open = false
}

func (s *SpeakerSink) SampleRate() beep.SampleRate {
	return s.rate
}
