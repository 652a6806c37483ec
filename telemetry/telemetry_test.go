package telemetry

import (
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/event"
)

func TestMetersNilSafe(t *testing.T) {
	var m *Meters
	assert.NotPanics(t, func() {
		m.Lap("basic")
		m.Reset()
		m.Steps(3)
		m.Contacts(2)
	})
}

func TestMetersOnNoopMeter(t *testing.T) {
	m, err := NewMeters(noop.Meter{}, func() int { return 4 })
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.Lap("premium")
		m.Reset()
		m.Steps(0)
		m.Steps(60)
		m.Contacts(1)
	})

	_, err = NewMeters(Meter(), nil)
	require.NoError(t, err)
}

func TestPointForEvents(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)

	lap := PointFor(event.Event{Type: event.LapCompleted, Payload: &event.LapCompletedPayload{
		Session: "s1", Car: "basic", Quality: "high", Lap: 2, Time: 45.5,
		Splits: []float64{11, 12, 11, 11.5}, Best: true, At: at,
	}})
	require.NotNil(t, lap)
	assert.Equal(t, MeasurementLap, lap.Name())
	assert.Equal(t, at, lap.Time())
	fields := map[string]any{}
	for _, f := range lap.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, int64(2), fields["lap"])
	assert.Equal(t, 45.5, fields["seconds"])
	assert.Equal(t, 11.5, fields["split_4"])

	reset := PointFor(event.Event{Type: event.VehicleReset, Payload: &event.VehicleResetPayload{Session: "s1", Lap: 1, At: at}})
	require.NotNil(t, reset)
	assert.Equal(t, MeasurementReset, reset.Name())

	assert.Nil(t, PointFor(event.Event{Type: event.AudioUnlocked}))
}

func TestInfluxFallsBackToBackupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laps.lp.gz")
	in := NewInflux(config.InfluxConfig{
		Enabled:    true,
		URL:        "http://127.0.0.1:1",
		Org:        "dusk",
		Bucket:     "laps",
		BackupPath: path,
		Timeout:    300 * time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, in.Init())
	require.False(t, in.Disabled())
	assert.ElementsMatch(t, []event.Type{event.LapCompleted, event.VehicleReset, event.SessionEnded}, in.EventTypes())

	in.HandleEvent(event.Event{Type: event.LapCompleted, Payload: &event.LapCompletedPayload{
		Session: "s1", Car: "basic", Quality: "low", Lap: 1, Time: 44.2, At: time.Now(),
	}})
	in.HandleEvent(event.Event{Type: event.VehicleReset, Payload: &event.VehicleResetPayload{Session: "s1", Lap: 1, At: time.Now()}})
	in.HandleEvent(event.Event{Type: event.AudioUnlocked})
	assert.Equal(t, 2, in.Points())
	require.NoError(t, in.Stop())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var lines []string
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "lap,"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "reset,"), lines[1])
}

func TestInfluxDisabled(t *testing.T) {
	in := NewInflux(config.InfluxConfig{Enabled: false}, zerolog.Nop())
	require.NoError(t, in.Init())
	assert.True(t, in.Disabled())

	in.HandleEvent(event.Event{Type: event.VehicleReset, Payload: &event.VehicleResetPayload{}})
	assert.Zero(t, in.Points())
	assert.NoError(t, in.Stop())
}
