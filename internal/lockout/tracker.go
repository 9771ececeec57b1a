package lockout

import "time"

// Policy holds configuration for the failed-login lockout state machine.
type Policy struct {
	Threshold int
	Duration  time.Duration
}

// State is the lockout portion of an identity record: the consecutive
// failure count and the optional lock deadline.
type State struct {
	Attempts  int
	LockUntil *time.Time
}

// Tracker is a stateless lockout state machine. It computes transitions on
// a [State] value; persisting the result is the caller's responsibility.
type Tracker struct {
	policy Policy
}

// New creates a tracker with the given policy.
func New(policy Policy) Tracker {
	return Tracker{policy: policy}
}

// Locked reports whether the state carries a lock deadline strictly in the
// future.
func (t Tracker) Locked(s State, now time.Time) bool {
	return s.LockUntil != nil && now.Before(*s.LockUntil)
}

// Fail returns the state after one failed attempt. An expired lock resets
// the window: the expiry clears the counter too, not just the lock, so the
// failure counts as the first of a fresh window. Reaching the threshold
// sets the lock deadline.
func (t Tracker) Fail(s State, now time.Time) State {
	if s.LockUntil != nil && !now.Before(*s.LockUntil) {
		s = State{}
	}

	s.Attempts++
	if s.Attempts >= t.policy.Threshold {
		until := now.Add(t.policy.Duration)
		s.LockUntil = &until
	}
	return s
}

// Reset returns the state after a successful attempt: counter at zero, no
// lock, regardless of prior state.
func (t Tracker) Reset() State {
	return State{}
}
