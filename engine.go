package bonsaiauth

import (
	"errors"
	"fmt"

	"github.com/Alex03Immanuel/bonsai-auth/internal/stores"
	"github.com/Alex03Immanuel/bonsai-auth/password"
)

// Engine is the authentication core. Instances are built once through
// [Builder.Build], hold no per-request state, and are safe for concurrent
// use. The engine never caches store records: every decision re-reads so
// concurrent requests for the same identity observe store-level resolution.
type Engine struct {
	config       Config
	credentials  stores.CredentialStore
	challenges   stores.ChallengeStore
	notifier     Notifier
	passwordHash *password.Argon2
	proof        *proofManager
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close drains and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports events discarded due to dispatcher backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// mapChallengeError folds store sentinels into the public taxonomy. Absence
// is not folded here — callers decide what absent means for their step.
func mapChallengeError(err error) error {
	if errors.Is(err, stores.ErrChallengeUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// credentialAbsent reports whether err only means no record exists.
func credentialAbsent(err error) bool {
	return errors.Is(err, stores.ErrCredentialNotFound)
}

// mapCredentialError treats every non-absence failure from a caller-supplied
// credential store as backend unavailability.
func mapCredentialError(err error) error {
	if errors.Is(err, stores.ErrCredentialNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
