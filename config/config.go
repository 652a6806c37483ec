// Package config loads runtime settings from dusk_circuit.json with viper defaults
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory
const FileName = "dusk_circuit.json"

var ErrInvalid = errors.New("invalid config")

type TrackConfig struct {
	Samples int `mapstructure:"samples"`
}

type SimConfig struct {
	FixedStep  float64 `mapstructure:"fixedStep"`
	MaxFrameDt float64 `mapstructure:"maxFrameDt"`
	FrameMs    int     `mapstructure:"frameMs"`
}

type InputConfig struct {
	KeyHoldMs   int  `mapstructure:"keyHoldMs"`
	KeyRepeatMs int  `mapstructure:"keyRepeatMs"`
	Gamepad     bool `mapstructure:"gamepad"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RampCap float64 `mapstructure:"rampCap"`
}

// StoreConfig selects the record database; postgres falls back to sqlite on failure
type StoreConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Driver         string        `mapstructure:"driver"`
	Path           string        `mapstructure:"path"`
	DSN            string        `mapstructure:"dsn"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

type InfluxConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	Token      string        `mapstructure:"token"`
	Org        string        `mapstructure:"org"`
	Bucket     string        `mapstructure:"bucket"`
	BackupPath string        `mapstructure:"backupPath"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type GraylogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// Preferences are read once at session start and never mutated by the race
// The config values seed the store when it has none
type Preferences struct {
	Quality         string `mapstructure:"quality"`
	SelectedCar     string `mapstructure:"selectedCar"`
	PremiumUnlocked bool   `mapstructure:"premiumUnlocked"`
}

type Config struct {
	LogLevel string        `mapstructure:"logLevel"`
	LogFile  string        `mapstructure:"logFile"`
	Track    TrackConfig   `mapstructure:"track"`
	Sim      SimConfig     `mapstructure:"sim"`
	Input    InputConfig   `mapstructure:"input"`
	Audio    AudioConfig   `mapstructure:"audio"`
	Store    StoreConfig   `mapstructure:"store"`
	Influx   InfluxConfig  `mapstructure:"influx"`
	Graylog  GraylogConfig `mapstructure:"graylog"`
	Prefs    Preferences   `mapstructure:"prefs"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "dusk_circuit.log")

	viper.SetDefault("track.samples", 320)

	viper.SetDefault("sim.fixedStep", 1.0/60.0)
	viper.SetDefault("sim.maxFrameDt", 0.05)
	viper.SetDefault("sim.frameMs", 16)

	viper.SetDefault("input.keyHoldMs", 550)
	viper.SetDefault("input.keyRepeatMs", 120)
	viper.SetDefault("input.gamepad", true)

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.rampCap", 0.05)

	viper.SetDefault("store.enabled", true)
	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.path", "dusk_circuit.db")
	viper.SetDefault("store.dsn", "")
	viper.SetDefault("store.connectTimeout", "3s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "dusk-circuit")
	viper.SetDefault("influx.bucket", "laps")
	viper.SetDefault("influx.backupPath", "laps.lp.gz")
	viper.SetDefault("influx.timeout", "2s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("prefs.quality", "high")
	viper.SetDefault("prefs.selectedCar", "basic")
	viper.SetDefault("prefs.premiumUnlocked", false)
}

// Load applies defaults, reads FileName from dir if present and returns the typed config
// A missing file is not an error
func Load(dir string) (Config, error) {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(dir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.Track.Samples < 16:
		return fmt.Errorf("%w: track.samples %d below 16", ErrInvalid, c.Track.Samples)
	case c.Sim.FixedStep <= 0:
		return fmt.Errorf("%w: sim.fixedStep must be positive", ErrInvalid)
	case c.Sim.MaxFrameDt < c.Sim.FixedStep:
		return fmt.Errorf("%w: sim.maxFrameDt below fixedStep", ErrInvalid)
	case c.Sim.FrameMs <= 0:
		return fmt.Errorf("%w: sim.frameMs must be positive", ErrInvalid)
	case c.Audio.RampCap <= 0:
		return fmt.Errorf("%w: audio.rampCap must be positive", ErrInvalid)
	case c.Store.Driver != "sqlite" && c.Store.Driver != "postgres":
		return fmt.Errorf("%w: store.driver %q", ErrInvalid, c.Store.Driver)
	}
	return nil
}

// FrameInterval is the display cadence
func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.Sim.FrameMs) * time.Millisecond
}

// KeyHold returns the initial and repeat key hold windows
func (c Config) KeyHold() (initial, repeat time.Duration) {
	return time.Duration(c.Input.KeyHoldMs) * time.Millisecond,
		time.Duration(c.Input.KeyRepeatMs) * time.Millisecond
}

// Set overrides a key after Load, used for command-line flags
func Set(key string, value any) {
	viper.Set(key, value)
}

// Current re-reads the typed config after overrides
func Current() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}
