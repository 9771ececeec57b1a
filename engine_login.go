package credlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/credlock/credlock/internal/lockout"
)

// Login verifies the email/password pair and issues a credential pair.
// Unknown emails and wrong passwords both fail with [ErrInvalidCredentials];
// a locked identity fails with [*AccountLockedError] before any password
// check. A failed attempt advances the lockout state and persists it before
// returning.
func (e *Engine) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	now := e.clock()

	rec, err := e.userStore.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Same error as a wrong password; no account enumeration.
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", email, ErrInvalidCredentials, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	state := lockout.State{Attempts: rec.LoginAttempts, LockUntil: rec.LockUntil}
	if e.tracker.Locked(state, now) {
		lockedErr := &AccountLockedError{Until: *rec.LockUntil}
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, auditEventLoginLocked, false, rec.ID, email, lockedErr, nil)
		return nil, lockedErr
	}

	ok, err := e.passwords.Verify(password, rec.PasswordHash)
	if err != nil {
		// A malformed stored hash is an integrity problem, not a failed
		// attempt; it does not advance the lockout counter.
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		next := e.tracker.Fail(state, now)
		rec.LoginAttempts = next.Attempts
		rec.LockUntil = next.LockUntil
		if err := e.userStore.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		e.metricInc(MetricLoginFailure)
		if next.LockUntil != nil && state.LockUntil == nil {
			e.metricInc(MetricLockoutTriggered)
			e.emitAudit(ctx, auditEventLockoutTriggered, false, rec.ID, email, ErrAccountLocked, func() map[string]string {
				return map[string]string{"lock_until": next.LockUntil.UTC().Format(time.RFC3339)}
			})
		}
		e.emitAudit(ctx, auditEventLoginFailure, false, rec.ID, email, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	// Counter reset rides the issuance save, so success persists exactly once.
	reset := e.tracker.Reset()
	rec.LoginAttempts = reset.Attempts
	rec.LockUntil = reset.LockUntil

	pair, err := e.issueTokens(ctx, rec)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, rec.ID, email, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, rec.ID, email, nil, nil)
	return pair, nil
}
