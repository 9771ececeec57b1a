package revocation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis, func() time.Time) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	return NewStore(rdb, "rvk", clock), mr, clock
}

func TestStore_RevokeThenIsRevoked(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "token-1", KindAccess, clock().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	revoked, err := store.IsRevoked(ctx, "token-1", KindAccess)
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !revoked {
		t.Fatal("expected the token revoked")
	}

	// Different token, different kind: both miss.
	if revoked, _ := store.IsRevoked(ctx, "token-2", KindAccess); revoked {
		t.Fatal("unrelated token reported revoked")
	}
	if revoked, _ := store.IsRevoked(ctx, "token-1", KindRefresh); revoked {
		t.Fatal("kind must partition the ledger")
	}
}

func TestStore_RevokeIdempotent(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Revoke(ctx, "token-1", KindRefresh, clock().Add(time.Hour)); err != nil {
			t.Fatalf("Revoke %d failed: %v", i, err)
		}
	}

	if revoked, _ := store.IsRevoked(ctx, "token-1", KindRefresh); !revoked {
		t.Fatal("expected the token revoked")
	}
}

func TestStore_RevokeExpiredTokenIsNoOp(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "stale", KindAccess, clock().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke of an expired token must succeed: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "stale", KindAccess); revoked {
		t.Fatal("expired token must not get a ledger entry")
	}
}

func TestStore_EntriesSelfExpire(t *testing.T) {
	store, mr, clock := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "token-1", KindAccess, clock().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "token-1", KindAccess)
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("ledger entry must expire with the credential")
	}
}

func TestStore_KeysAreHashed(t *testing.T) {
	store, mr, clock := newTestStore(t)
	ctx := context.Background()

	const token = "super-secret-token-value"
	if err := store.Revoke(ctx, token, KindAccess, clock().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	for _, key := range mr.Keys() {
		if strings.Contains(key, token) {
			t.Fatalf("raw token leaked into Redis key %q", key)
		}
		if !strings.HasPrefix(key, "rvk:a:") {
			t.Fatalf("unexpected key layout %q", key)
		}
	}
}

func TestStore_BackendFailure(t *testing.T) {
	store, mr, clock := newTestStore(t)
	ctx := context.Background()

	mr.SetError("connection refused")

	if err := store.Revoke(ctx, "token-1", KindAccess, clock().Add(time.Hour)); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from Revoke, got %v", err)
	}
	if _, err := store.IsRevoked(ctx, "token-1", KindAccess); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from IsRevoked, got %v", err)
	}
}
