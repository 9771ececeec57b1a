package internaldefs

import (
	credlock "github.com/credlock/credlock"
)

// CounterDef names one engine counter for exposition.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   credlock.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exposition.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   credlock.MetricID
	Name string
	Help string
}

// CounterDefs is the full counter table shared by all exporters.
var CounterDefs = []CounterDef{
	{ID: credlock.MetricRegisterSuccess, Name: "credlock_register_success_total", Help: "Successful registrations."},
	{ID: credlock.MetricRegisterDuplicate, Name: "credlock_register_duplicate_total", Help: "Registrations rejected as duplicate email."},
	{ID: credlock.MetricLoginSuccess, Name: "credlock_login_success_total", Help: "Successful login attempts."},
	{ID: credlock.MetricLoginFailure, Name: "credlock_login_failure_total", Help: "Failed login attempts."},
	{ID: credlock.MetricLoginLocked, Name: "credlock_login_locked_total", Help: "Login attempts rejected because the account was locked."},
	{ID: credlock.MetricLockoutTriggered, Name: "credlock_lockout_triggered_total", Help: "Lockouts triggered by consecutive failures."},
	{ID: credlock.MetricRefreshSuccess, Name: "credlock_refresh_success_total", Help: "Successful refresh operations."},
	{ID: credlock.MetricRefreshFailure, Name: "credlock_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: credlock.MetricRefreshRotated, Name: "credlock_refresh_rotated_total", Help: "Refresh operations that rotated the refresh credential."},
	{ID: credlock.MetricLogout, Name: "credlock_logout_total", Help: "Logout operations."},
	{ID: credlock.MetricAuthenticateSuccess, Name: "credlock_authenticate_success_total", Help: "Successful access-credential verifications."},
	{ID: credlock.MetricAuthenticateFailure, Name: "credlock_authenticate_failure_total", Help: "Failed access-credential verifications."},
	{ID: credlock.MetricAuthenticateRevoked, Name: "credlock_authenticate_revoked_total", Help: "Verifications rejected by the revocation ledger."},
	{ID: credlock.MetricRevocationWrite, Name: "credlock_revocation_write_total", Help: "Revocation ledger writes."},
}

// HistogramDefs is the full histogram table shared by all exporters.
var HistogramDefs = []HistogramDef{
	{ID: credlock.MetricAuthenticateLatency, Name: "credlock_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the Prometheus le labels, in bucket order.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bound labels in identifier-safe form, for
// backends that cannot carry an le label.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
