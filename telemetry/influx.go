package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/event"
)

var ErrNoWriter = errors.New("influx client and backup writer unavailable")

// Measurement names
const (
	MeasurementLap     = "lap"
	MeasurementReset   = "reset"
	MeasurementSession = "session"
)

// Influx writes race events as points, falling back to a gzip line-protocol file
// when the server does not answer the startup ping
type Influx struct {
	cfg config.InfluxConfig
	log zerolog.Logger

	mu     sync.Mutex
	client influxdb2.Client
	writer influxdb2_api.WriteAPI
	file   *os.File
	backup *gzip.Writer
	valid  bool
	points int
}

func NewInflux(cfg config.InfluxConfig, log zerolog.Logger) *Influx {
	return &Influx{cfg: cfg, log: log}
}

func (i *Influx) Name() string           { return "influx" }
func (i *Influx) Dependencies() []string { return nil }

// Init pings the server within the configured timeout; failures switch to the backup file
func (i *Influx) Init() error {
	if !i.cfg.Enabled {
		i.log.Info().Msg("InfluxDB disabled by config")
		return nil
	}

	i.client = influxdb2.NewClientWithOptions(
		i.cfg.URL,
		i.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	timeout := i.cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	running, err := i.client.Ping(ctx)
	if err == nil && running {
		i.valid = true
		i.writer = i.client.WriteAPI(i.cfg.Org, i.cfg.Bucket)
		errorsCh := i.writer.Errors()
		go func() {
			for writeErr := range errorsCh {
				i.log.Error().Err(writeErr).Str("bucket", i.cfg.Bucket).Msg("Error sending data to InfluxDB")
			}
		}()
		i.log.Info().Str("url", i.cfg.URL).Msg("InfluxDB client initialized")
		return nil
	}

	i.client.Close()
	i.client = nil
	if i.cfg.BackupPath == "" {
		i.log.Warn().Err(err).Msg("InfluxDB unreachable and no backup path, telemetry disabled")
		return nil
	}
	file, ferr := os.OpenFile(i.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if ferr != nil {
		i.log.Warn().Err(ferr).Msg("InfluxDB backup file unavailable, telemetry disabled")
		return nil
	}
	i.file = file
	i.backup = gzip.NewWriter(file)
	i.log.Warn().Err(err).Str("backupPath", i.cfg.BackupPath).Msg("InfluxDB unreachable, writing to backup file")
	return nil
}

func (i *Influx) Start() error { return nil }

// Stop flushes pending points and closes the client or backup file
func (i *Influx) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.writer != nil {
		i.writer.Flush()
		i.writer = nil
	}
	if i.client != nil {
		i.client.Close()
		i.client = nil
	}
	var err error
	if i.backup != nil {
		err = errors.Join(i.backup.Close(), i.file.Close())
		i.backup = nil
		i.file = nil
	}
	i.valid = false
	return err
}

func (i *Influx) Disabled() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return !i.valid && i.backup == nil
}

// Points returns the number of points accepted
func (i *Influx) Points() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.points
}

// WritePoint sends a point to the server or appends it to the backup file
func (i *Influx) WritePoint(p *influxdb2_write.Point) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	switch {
	case i.valid:
		i.writer.WritePoint(p)
	case i.backup != nil:
		line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		if _, err := i.backup.Write([]byte(line)); err != nil {
			return fmt.Errorf("writing backup point: %w", err)
		}
	default:
		return ErrNoWriter
	}
	i.points++
	return nil
}

func (i *Influx) EventTypes() []event.Type {
	return []event.Type{event.LapCompleted, event.VehicleReset, event.SessionEnded}
}

// HandleEvent converts race events to points; runs on the bus goroutine
func (i *Influx) HandleEvent(ev event.Event) {
	p := PointFor(ev)
	if p == nil {
		return
	}
	if err := i.WritePoint(p); err != nil && !errors.Is(err, ErrNoWriter) {
		i.log.Warn().Err(err).Str("event", ev.Type.String()).Msg("Telemetry point dropped")
	}
}

// PointFor maps an event to its point, nil for events without one
func PointFor(ev event.Event) *influxdb2_write.Point {
	switch p := ev.Payload.(type) {
	case *event.LapCompletedPayload:
		pt := influxdb2_write.NewPointWithMeasurement(MeasurementLap).
			AddTag("session", p.Session).
			AddTag("car", p.Car).
			AddTag("quality", p.Quality).
			AddField("lap", p.Lap).
			AddField("seconds", p.Time).
			AddField("best", p.Best).
			SetTime(p.At)
		for k, s := range p.Splits {
			pt.AddField(fmt.Sprintf("split_%d", k+1), s)
		}
		return pt
	case *event.VehicleResetPayload:
		return influxdb2_write.NewPointWithMeasurement(MeasurementReset).
			AddTag("session", p.Session).
			AddField("lap", p.Lap).
			SetTime(p.At)
	case *event.SessionEndedPayload:
		return influxdb2_write.NewPointWithMeasurement(MeasurementSession).
			AddTag("session", p.Session).
			AddField("laps", p.Laps).
			AddField("best_lap", p.BestLap).
			AddField("duration", p.Duration).
			AddField("steps", int64(p.Steps)).
			SetTime(time.Now())
	}
	return nil
}
