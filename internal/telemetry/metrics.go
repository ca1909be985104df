// Package telemetry records OpenTelemetry metrics for authentication, sessions and applications.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/and161185/jobboard/internal/events"
)

// Login outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeLocked  = "locked"
)

// Metrics holds the instruments. A nil *Metrics records nothing.
type Metrics struct {
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	lockouts      metric.Int64Counter
	sessionEvents metric.Int64Counter
	applications  metric.Int64Counter
	hashDuration  metric.Float64Histogram
}

// Noop returns Metrics backed by a no-op meter.
func Noop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("jobboard"))
	return m
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	reg, err := meter.Int64Counter("jobboard.auth.registrations",
		metric.WithDescription("Number of successful registrations"),
	)
	if err != nil {
		return nil, err
	}

	logins, err := meter.Int64Counter("jobboard.auth.logins",
		metric.WithDescription("Number of login attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	lockouts, err := meter.Int64Counter("jobboard.auth.lockouts",
		metric.WithDescription("Number of lockouts started"),
	)
	if err != nil {
		return nil, err
	}

	sess, err := meter.Int64Counter("jobboard.session.events",
		metric.WithDescription("Number of session notifications by kind"),
	)
	if err != nil {
		return nil, err
	}

	apps, err := meter.Int64Counter("jobboard.applications",
		metric.WithDescription("Number of submitted job applications"),
	)
	if err != nil {
		return nil, err
	}

	hashDur, err := meter.Float64Histogram("jobboard.auth.hash.duration",
		metric.WithDescription("Duration of password hashing in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		registrations: reg,
		logins:        logins,
		lockouts:      lockouts,
		sessionEvents: sess,
		applications:  apps,
		hashDuration:  hashDur,
	}, nil
}

func (m *Metrics) Registered(ctx context.Context) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1)
}

// Login counts an attempt with one of the Outcome* values.
func (m *Metrics) Login(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) LockedOut(ctx context.Context) {
	if m == nil {
		return
	}
	m.lockouts.Add(ctx, 1)
}

func (m *Metrics) Applied(ctx context.Context) {
	if m == nil {
		return
	}
	m.applications.Add(ctx, 1)
}

// Hashed records how long a password hash took, labelled with the algorithm.
func (m *Metrics) Hashed(ctx context.Context, alg string, d time.Duration) {
	if m == nil {
		return
	}
	m.hashDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("alg", alg)))
}

// Handle counts session events. It is meant to be subscribed to an events.Bus.
func (m *Metrics) Handle(e events.Event) {
	if m == nil {
		return
	}
	switch e.Kind {
	case events.SessionTimeout, events.SessionWarning:
		m.sessionEvents.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("kind", string(e.Kind))))
	}
}
