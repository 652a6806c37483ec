package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/event"
)

// writeTimeout bounds each record write on the dispatch goroutine
const writeTimeout = 2 * time.Second

// Service opens the record store for the process and records lap events
// A failed open leaves the service disabled; the race runs without records
type Service struct {
	cfg config.StoreConfig
	log zerolog.Logger

	store *Store
}

func NewService(cfg config.StoreConfig, log zerolog.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

func (s *Service) Name() string           { return "store" }
func (s *Service) Dependencies() []string { return nil }

// Init opens the database; errors degrade rather than fail
func (s *Service) Init() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("Record store disabled by config")
		return nil
	}
	st, err := Open(context.Background(), s.cfg, s.log)
	if err != nil {
		s.log.Warn().Err(err).Msg("Record store unavailable, running without records")
		return nil
	}
	s.store = st
	return nil
}

func (s *Service) Start() error { return nil }

func (s *Service) Stop() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

func (s *Service) Disabled() bool {
	return s.store == nil
}

// Store returns the open store or nil
func (s *Service) Store() *Store {
	return s.store
}

// Preferences loads stored preferences over defaults; a disabled store returns defaults
func (s *Service) Preferences(defaults config.Preferences) config.Preferences {
	if s.store == nil {
		return defaults
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	p, err := s.store.LoadPreferences(ctx, defaults)
	if err != nil {
		s.log.Warn().Err(err).Msg("Loading preferences failed, using config values")
		return defaults
	}
	return p
}

func (s *Service) EventTypes() []event.Type {
	return []event.Type{event.LapCompleted, event.SessionEnded}
}

// HandleEvent persists lap and session records; runs on the bus goroutine
func (s *Service) HandleEvent(ev event.Event) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	switch p := ev.Payload.(type) {
	case *event.LapCompletedPayload:
		rec, err := NewLapRecord(p.Session, p.Car, p.Quality, p.Lap, p.Time, p.Splits, p.Best, p.At)
		if err == nil {
			err = s.store.RecordLap(ctx, &rec)
		}
		if err != nil {
			s.log.Warn().Err(err).Int("lap", p.Lap).Msg("Lap record dropped")
		}
	case *event.SessionEndedPayload:
		rec := SessionRecord{
			Session:  p.Session,
			Laps:     p.Laps,
			BestLap:  p.BestLap,
			Duration: p.Duration,
			Steps:    p.Steps,
			EndedAt:  time.Now(),
		}
		if err := s.store.RecordSession(ctx, &rec); err != nil {
			s.log.Warn().Err(err).Str("session", p.Session).Msg("Session record dropped")
		}
	}
}
