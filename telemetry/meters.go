// Package telemetry exports race counters through OpenTelemetry and lap points to InfluxDB
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/lixenwraith/dusk-circuit/telemetry"

// Meter returns the global meter, a no-op until a provider is installed
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Meters holds the session counters; a nil *Meters records nothing
type Meters struct {
	laps     metric.Int64Counter
	resets   metric.Int64Counter
	steps    metric.Int64Counter
	contacts metric.Int64Counter
	queue    metric.Int64ObservableGauge
}

// NewMeters registers instruments on m; queueLen feeds the event queue gauge and may be nil
func NewMeters(m metric.Meter, queueLen func() int) (*Meters, error) {
	var (
		ms  Meters
		err error
	)

	ms.laps, err = m.Int64Counter("race.laps", metric.WithDescription("Completed laps"))
	if err != nil {
		return nil, fmt.Errorf("creating laps counter: %w", err)
	}
	ms.resets, err = m.Int64Counter("race.resets", metric.WithDescription("Vehicle resets"))
	if err != nil {
		return nil, fmt.Errorf("creating resets counter: %w", err)
	}
	ms.steps, err = m.Int64Counter("sim.steps", metric.WithDescription("Fixed physics steps run"))
	if err != nil {
		return nil, fmt.Errorf("creating steps counter: %w", err)
	}
	ms.contacts, err = m.Int64Counter("car.rail_contacts", metric.WithDescription("Rail contacts resolved"))
	if err != nil {
		return nil, fmt.Errorf("creating contacts counter: %w", err)
	}

	ms.queue, err = m.Int64ObservableGauge(
		"event.queue.size",
		metric.WithDescription("Events waiting for dispatch"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue gauge: %w", err)
	}
	if queueLen != nil {
		_, err = m.RegisterCallback(
			func(ctx context.Context, o metric.Observer) error {
				o.ObserveInt64(ms.queue, int64(queueLen()))
				return nil
			},
			ms.queue,
		)
		if err != nil {
			return nil, fmt.Errorf("registering queue callback: %w", err)
		}
	}

	return &ms, nil
}

// Lap counts a completed lap for car
func (m *Meters) Lap(car string) {
	if m == nil {
		return
	}
	m.laps.Add(context.Background(), 1, metric.WithAttributes(attribute.String("car", car)))
}

func (m *Meters) Reset() {
	if m == nil {
		return
	}
	m.resets.Add(context.Background(), 1)
}

// Steps adds n fixed steps
func (m *Meters) Steps(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.steps.Add(context.Background(), int64(n))
}

func (m *Meters) Contacts(n uint64) {
	if m == nil || n == 0 {
		return
	}
	m.contacts.Add(context.Background(), int64(n))
}
