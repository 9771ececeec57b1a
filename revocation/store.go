package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indicates the ledger backend is unreachable. Callers must
// fail closed: a credential whose revocation status cannot be determined is
// not accepted.
var ErrUnavailable = errors.New("revocation backend unavailable")

// Kind distinguishes the two credential kinds tracked by the ledger.
type Kind string

const (
	// KindAccess marks revoked access credentials.
	KindAccess Kind = "a"
	// KindRefresh marks revoked refresh credentials.
	KindRefresh Kind = "r"
)

// Store is the revocation ledger: an append-only set of revoked credentials
// whose entries self-expire at the credential's natural expiry, so the
// ledger is bounded by currently-valid-but-revoked credentials. Entries are
// keyed by SHA-256 of the token so raw credentials never reach Redis.
//
// Reads reflect prior writes through the same client (read-your-writes);
// across replicated instances, propagation is bounded by the deployment's
// Redis replication lag.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewStore creates a ledger using the given key prefix and time source.
func NewStore(client redis.UniversalClient, prefix string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{redis: client, prefix: prefix, now: now}
}

func (s *Store) key(kind Kind, token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + ":" + string(kind) + ":" + hex.EncodeToString(sum[:])
}

// Revoke inserts a ledger entry that expires at expiresAt. Revoking an
// already-revoked token is a no-op success, as is revoking a token already
// past its expiry.
func (s *Store) Revoke(ctx context.Context, token string, kind Kind, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, s.key(kind, token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether the exact token value has a live ledger entry.
func (s *Store) IsRevoked(ctx context.Context, token string, kind Kind) (bool, error) {
	err := s.redis.Get(ctx, s.key(kind, token)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}
