package credlock

import (
	"errors"
	"time"
)

var (
	// ErrValidation is returned when a request is missing required fields or
	// carries malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials is returned for a wrong email/password pair. It is
	// surfaced uniformly whether or not the email exists, to prevent account
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is the sentinel matched by [AccountLockedError] via
	// errors.Is. Login attempts against a locked identity fail with it without
	// a password check being performed.
	ErrAccountLocked = errors.New("account locked")
	// ErrEmailTaken is returned by Register when the email already identifies
	// an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordPolicy is returned when a supplied password does not meet the
	// hasher's minimum requirements.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrUserNotFound must be returned by [UserStore] lookups that match no
	// identity. It never crosses the engine boundary.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreDuplicateEmail must be returned by [UserStore.Create] when the
	// email is already in use. The engine maps it to [ErrEmailTaken].
	ErrStoreDuplicateEmail = errors.New("store duplicate email")
	// ErrNoToken is returned by Authenticate when no credential is presented.
	ErrNoToken = errors.New("no token provided")
	// ErrTokenInvalid is returned for access credentials that fail signature,
	// issuer, or audience checks.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for access credentials past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is returned for credentials present in the revocation
	// ledger, regardless of their signature validity.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrRefreshInvalid is returned for refresh credentials that are unknown,
	// expired, or revoked.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrPersistence wraps user-store write failures. An operation that cannot
	// durably persist its state change never reports success.
	ErrPersistence = errors.New("persistence failure")
	// ErrRevocationUnavailable wraps revocation ledger failures. Verification
	// fails closed rather than guessing validity.
	ErrRevocationUnavailable = errors.New("revocation ledger unavailable")
	// ErrEngineNotReady is returned when an engine method is invoked before a
	// successful Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// AccountLockedError carries the unlock time for a rejected login attempt.
// It unwraps to [ErrAccountLocked] so callers can match with errors.Is.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return "account locked until " + e.Until.UTC().Format(time.RFC3339)
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}
