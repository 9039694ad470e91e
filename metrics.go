package bonsaiauth

import "sync/atomic"

// MetricID identifies a counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterDuplicate counts registrations rejected because the
	// identity already existed.
	MetricRegisterDuplicate
	// MetricOTPIssued counts stored (not necessarily delivered) challenges.
	MetricOTPIssued
	// MetricOTPRateLimited counts requests rejected by the fixed window.
	MetricOTPRateLimited
	// MetricOTPDeliveryFailure counts notifier errors, surfaced or not.
	MetricOTPDeliveryFailure
	// MetricLoginSuccess counts logins that produced a credential proof.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected logins of any kind.
	MetricLoginFailure
	// MetricStoreFailure counts backend I/O failures across operations.
	MetricStoreFailure

	metricIDCount
)

// Metrics holds atomic counters. All operations are no-ops when constructed
// disabled. Safe for concurrent use.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a [Metrics] instance. When cfg.Enabled is false, Inc is
// a no-op and Snapshot returns zero values.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricIDCount),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
