package credlock

import (
	"github.com/credlock/credlock/internal/lockout"
	"github.com/credlock/credlock/jwt"
	"github.com/credlock/credlock/revocation"
)

// Engine is the credential lifecycle facade. It sequences the lockout
// tracker, the password verifier, the token issuer/verifier, and the
// revocation ledger for every operation.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config     Config
	userStore  UserStore
	passwords  PasswordVerifier
	jwtManager *jwt.Manager
	ledger     *revocation.Store
	tracker    lockout.Tracker
	clock      Clock
	audit      *auditDispatcher
	metrics    *Metrics
}

// Close releases background resources held by the engine. It flushes and
// stops the audit dispatcher; it does not close the Redis client, which the
// caller owns.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.userStore != nil &&
		e.passwords != nil &&
		e.jwtManager != nil &&
		e.ledger != nil
}
