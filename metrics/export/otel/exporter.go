package otel

import (
	"context"
	"errors"
	"fmt"

	bonsaiauth "github.com/Alex03Immanuel/bonsai-auth"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// CounterDef pins the exported name for one engine metric. Names are stable;
// dashboards depend on them.
type CounterDef struct {
	ID   bonsaiauth.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: bonsaiauth.MetricRegisterSuccess, Name: "bonsaiauth_register_success_total", Help: "Completed registrations."},
	{ID: bonsaiauth.MetricRegisterDuplicate, Name: "bonsaiauth_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: bonsaiauth.MetricOTPIssued, Name: "bonsaiauth_otp_issued_total", Help: "Stored OTP challenges."},
	{ID: bonsaiauth.MetricOTPRateLimited, Name: "bonsaiauth_otp_rate_limited_total", Help: "OTP requests rejected by the fixed window."},
	{ID: bonsaiauth.MetricOTPDeliveryFailure, Name: "bonsaiauth_otp_delivery_failure_total", Help: "Notifier delivery failures."},
	{ID: bonsaiauth.MetricLoginSuccess, Name: "bonsaiauth_login_success_total", Help: "Logins that produced a credential proof."},
	{ID: bonsaiauth.MetricLoginFailure, Name: "bonsaiauth_login_failure_total", Help: "Rejected logins."},
	{ID: bonsaiauth.MetricStoreFailure, Name: "bonsaiauth_store_failure_total", Help: "Backend store I/O failures."},
}

type metricsSource interface {
	MetricsSnapshot() bonsaiauth.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id         bonsaiauth.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter bridges engine counters into an OTel meter.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	auditDropped metric.Int64ObservableCounter
}

// NewExporter registers observable counters on meter for engine.
func NewExporter(meter metric.Meter, engine *bonsaiauth.Engine) (*Exporter, error) {
	return NewExporterFromSource(meter, engine)
}

// NewExporterFromSource is the test seam: any snapshot source works.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(CounterDefs)),
	}

	observables := make([]metric.Observable, 0, len(CounterDefs)+1)

	for _, def := range CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		"bonsaiauth_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.auditDropped, int64(exporter.source.AuditDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
