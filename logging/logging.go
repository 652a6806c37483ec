// Package logging builds the process logger; the terminal belongs to the game, so logs go to a file and graylog
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/config"
)

// Logs is the configured logger plus the sinks it owns
type Logs struct {
	Logger zerolog.Logger

	// Sampled is for high-rate diagnostics such as per-frame stalls
	Sampled zerolog.Logger

	file *os.File
	gelf *gelf.Writer
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New builds a logger writing console-formatted lines to out, plus graylog when enabled
// A graylog dial failure is logged and skipped
func New(cfg config.Config, out io.Writer) *Logs {
	l := &Logs{}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true},
	}

	var gelfErr error
	if cfg.Graylog.Enabled {
		w, err := gelf.NewWriter(cfg.Graylog.Address)
		if err != nil {
			gelfErr = err
		} else {
			l.gelf = w
			writers = append(writers, w)
		}
	}

	level := ParseLevel(cfg.LogLevel)
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Str("app", "dusk-circuit").Logger()

	l.Sampled = l.Logger.With().Bool("sampled", true).Logger().Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      10 * time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})

	if gelfErr != nil {
		l.Logger.Warn().Err(gelfErr).Str("address", cfg.Graylog.Address).Msg("Graylog unavailable, logging to file only")
	}
	l.Logger.Info().Str("level", level.String()).Bool("graylog", l.gelf != nil).Msg("Logging set up")
	return l
}

// Open creates or appends to cfg.LogFile and builds the logger on it
func Open(cfg config.Config) (*Logs, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(cfg, f)
	l.file = f
	return l, nil
}

// Close releases the file and graylog connection
func (l *Logs) Close() error {
	var first error
	if l.gelf != nil {
		first = l.gelf.Close()
		l.gelf = nil
	}
	if l.file != nil {
		if err := l.file.Close(); err != nil && first == nil {
			first = err
		}
		l.file = nil
	}
	return first
}
