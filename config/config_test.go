package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 320, cfg.Track.Samples)
	assert.InDelta(t, 1.0/60, cfg.Sim.FixedStep, 1e-12)
	assert.Equal(t, 0.05, cfg.Sim.MaxFrameDt)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval())
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 3*time.Second, cfg.Store.ConnectTimeout)
	assert.False(t, cfg.Influx.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Influx.Timeout)
	assert.Equal(t, "localhost:12201", cfg.Graylog.Address)
	assert.Equal(t, "high", cfg.Prefs.Quality)

	initial, repeat := cfg.KeyHold()
	assert.Equal(t, 550*time.Millisecond, initial)
	assert.Equal(t, 120*time.Millisecond, repeat)
}

func TestLoad_WithConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	body := `{
		"logLevel": "debug",
		"track": { "samples": 400 },
		"store": { "driver": "postgres", "dsn": "host=db user=race" },
		"influx": { "enabled": true, "bucket": "dev" },
		"prefs": { "selectedCar": "premium", "premiumUnlocked": true }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 400, cfg.Track.Samples)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "host=db user=race", cfg.Store.DSN)
	assert.True(t, cfg.Influx.Enabled)
	assert.Equal(t, "dev", cfg.Influx.Bucket)
	assert.Equal(t, "premium", cfg.Prefs.SelectedCar)
	assert.True(t, cfg.Prefs.PremiumUnlocked)
	assert.Equal(t, "high", cfg.Prefs.Quality, "unset keys keep defaults")
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"few samples", `{"track": {"samples": 4}}`},
		{"bad driver", `{"store": {"driver": "mysql"}}`},
		{"frame below step", `{"sim": {"maxFrameDt": 0.001}}`},
		{"malformed", `{"track": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.body), 0644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSetOverridesAfterLoad(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load(t.TempDir())
	require.NoError(t, err)

	Set("audio.enabled", false)
	Set("logLevel", "trace")
	cfg, err := Current()
	require.NoError(t, err)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "trace", cfg.LogLevel)
}

func TestValidateErrorsWrapSentinel(t *testing.T) {
	err := Config{}.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPreferences(t *testing.T) {
	assert.Equal(t, CarBasic, Preferences{SelectedCar: CarPremium}.CarStyle(), "locked premium falls back")
	assert.Equal(t, CarPremium, Preferences{SelectedCar: CarPremium, PremiumUnlocked: true}.CarStyle())
	assert.Equal(t, CarBasic, Preferences{PremiumUnlocked: true}.CarStyle())

	assert.Equal(t, QualityLow, Preferences{Quality: " LOW "}.NormalizedQuality())
	assert.Equal(t, QualityHigh, Preferences{Quality: "ultra"}.NormalizedQuality())
}
