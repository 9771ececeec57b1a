package credlock

import (
	"context"
	"time"
)

// Clock supplies the current time to lockout, expiry, and revocation
// decisions. It defaults to time.Now and is swappable for tests.
type Clock func() time.Time

// UserRecord is the identity record owned by the caller's user store and
// referenced by the engine. The lockout fields are created at zero/nil on
// registration and reset, never removed. RefreshToken is unique across all
// identities whenever it is non-empty; issuing a new refresh credential
// overwrites the previous one.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string

	LoginAttempts int
	LockUntil     *time.Time

	RefreshToken       string
	RefreshTokenExpiry *time.Time
}

// UserStore is the interface callers must implement to integrate credlock
// with their user database. Implementations must return [ErrUserNotFound]
// from the lookups when no identity matches, and [ErrStoreDuplicateEmail]
// from Create on an email collision. Save must be a durable synchronous
// write; the engine treats a Save failure as fatal to the operation.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
	FindByRefreshToken(ctx context.Context, token string) (UserRecord, error)
	Create(ctx context.Context, rec UserRecord) error
	Save(ctx context.Context, rec UserRecord) error
}

// PasswordVerifier is the opaque password capability consumed by the engine.
// The default implementation is [password.Argon2].
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenPair is the credential pair returned by Register, Login, and Refresh.
// ExpiresIn is the access credential's exact claimed lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RegisterRequest is the input for [Engine.Register]. Email and Password are
// required; Role defaults to [AccountConfig.DefaultRole] when empty.
type RegisterRequest struct {
	Email    string
	Password string
	Role     string
}

// RegisterResult is returned by [Engine.Register]. Registration auto-issues
// a credential pair for the new identity.
type RegisterResult struct {
	UserID string
	Role   string
	Tokens TokenPair
}

// AuthResult is returned by [Engine.Authenticate]. It contains the verified
// claims of the presented access credential.
type AuthResult struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
