// Package store persists preferences and lap records through gorm
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/dusk-circuit/config"
)

var (
	ErrNoLaps   = errors.New("no laps recorded")
	ErrNotOpen  = errors.New("store not open")
	ErrBadSplit = errors.New("malformed lap splits")
)

// Store wraps the record database
type Store struct {
	db       *gorm.DB
	driver   string
	fallback bool
	log      zerolog.Logger
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// Open connects per cfg; a postgres failure within the timeout falls back to sqlite at cfg.Path
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Store, error) {
	if cfg.Driver == "postgres" {
		s, err := openPostgres(ctx, cfg, log)
		if err == nil {
			return s, nil
		}
		log.Warn().Err(err).Msg("Postgres unavailable, falling back to SQLite")
		s, err = OpenSQLite(cfg.Path, log)
		if err != nil {
			return nil, err
		}
		s.fallback = true
		return s, nil
	}
	return OpenSQLite(cfg.Path, log)
}

func openPostgres(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The bounded PingContext below is the only connect attempt
	gcfg := gormConfig()
	gcfg.DisableAutomaticPing = true
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), gcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)

	s := &Store{db: db, driver: "postgres", log: log}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	log.Info().Msg("Connected to Postgres record store")
	return s, nil
}

// OpenSQLite opens a file database; an empty path uses a private in-memory database
func OpenSQLite(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		// One connection keeps an in-memory database alive and serializes writers
		sqlDB.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			log.Debug().Err(err).Str("pragma", pragma).Msg("SQLite pragma rejected")
		}
	}

	s := &Store{db: db, driver: "sqlite", log: log}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("Using SQLite record store")
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&PreferenceRow{}, &LapRecord{}, &SessionRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Driver reports the backend in use
func (s *Store) Driver() string {
	return s.driver
}

// FellBack reports whether postgres was requested but sqlite is in use
func (s *Store) FellBack() bool {
	return s.fallback
}

// LoadPreferences returns stored preferences, seeding them from defaults on first run
func (s *Store) LoadPreferences(ctx context.Context, defaults config.Preferences) (config.Preferences, error) {
	if s == nil || s.db == nil {
		return defaults, ErrNotOpen
	}
	var row PreferenceRow
	err := s.db.WithContext(ctx).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.SavePreferences(ctx, defaults); err != nil {
			return defaults, err
		}
		return defaults, nil
	case err != nil:
		return defaults, fmt.Errorf("load preferences: %w", err)
	}
	return config.Preferences{
		Quality:         row.Quality,
		SelectedCar:     row.SelectedCar,
		PremiumUnlocked: row.PremiumUnlocked,
	}, nil
}

// SavePreferences upserts the single preferences row
func (s *Store) SavePreferences(ctx context.Context, p config.Preferences) error {
	if s == nil || s.db == nil {
		return ErrNotOpen
	}
	row := PreferenceRow{
		ID:              1,
		Quality:         p.Quality,
		SelectedCar:     p.SelectedCar,
		PremiumUnlocked: p.PremiumUnlocked,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// NewLapRecord builds a record with splits encoded as JSON
func NewLapRecord(session, car, quality string, lap int, seconds float64, splits []float64, best bool, at time.Time) (LapRecord, error) {
	raw, err := json.Marshal(splits)
	if err != nil {
		return LapRecord{}, fmt.Errorf("%w: %v", ErrBadSplit, err)
	}
	return LapRecord{
		Session:    session,
		Car:        car,
		Quality:    quality,
		Lap:        lap,
		Seconds:    seconds,
		Splits:     datatypes.JSON(raw),
		Best:       best,
		RecordedAt: at,
	}, nil
}

// SplitTimes decodes the stored splits
func (r LapRecord) SplitTimes() ([]float64, error) {
	if len(r.Splits) == 0 {
		return nil, nil
	}
	var out []float64
	if err := json.Unmarshal(r.Splits, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSplit, err)
	}
	return out, nil
}

func (s *Store) RecordLap(ctx context.Context, rec *LapRecord) error {
	if s == nil || s.db == nil {
		return ErrNotOpen
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("record lap: %w", err)
	}
	return nil
}

func (s *Store) RecordSession(ctx context.Context, rec *SessionRecord) error {
	if s == nil || s.db == nil {
		return ErrNotOpen
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// BestLap returns the fastest lap for car across all sessions
func (s *Store) BestLap(ctx context.Context, car string) (LapRecord, error) {
	if s == nil || s.db == nil {
		return LapRecord{}, ErrNotOpen
	}
	var rec LapRecord
	err := s.db.WithContext(ctx).Where("car = ?", car).Order("seconds asc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LapRecord{}, ErrNoLaps
	}
	if err != nil {
		return LapRecord{}, fmt.Errorf("best lap: %w", err)
	}
	return rec, nil
}

// RecentLaps returns up to limit laps, newest first
func (s *Store) RecentLaps(ctx context.Context, limit int) ([]LapRecord, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotOpen
	}
	var recs []LapRecord
	err := s.db.WithContext(ctx).Order("recorded_at desc").Order("id desc").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("recent laps: %w", err)
	}
	return recs, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}
