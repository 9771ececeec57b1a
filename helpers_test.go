package credlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testClock is a manually advanced time source shared by the engine and the
// assertions.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockUserStore is an in-memory UserStore with save-failure injection.
type mockUserStore struct {
	mu      sync.Mutex
	byID    map[string]UserRecord
	byEmail map[string]string
	saveErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *mockUserStore) FindByEmail(_ context.Context, email string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *mockUserStore) FindByRefreshToken(_ context.Context, token string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.byID {
		if rec.RefreshToken != "" && rec.RefreshToken == token {
			return rec, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (s *mockUserStore) Create(_ context.Context, rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[rec.Email]; ok {
		return ErrStoreDuplicateEmail
	}
	s.byID[rec.ID] = rec
	s.byEmail[rec.Email] = rec.ID
	return nil
}

func (s *mockUserStore) Save(_ context.Context, rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.byID[rec.ID]; !ok {
		return ErrUserNotFound
	}
	s.byID[rec.ID] = rec
	return nil
}

func (s *mockUserStore) setSaveErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *mockUserStore) get(t *testing.T, id string) UserRecord {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		t.Fatalf("record %q not in store", id)
	}
	return rec
}

func engineTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = []byte("engine-test-secret-0123456789")
	cfg.Token.Issuer = "credlock-test"
	cfg.Token.AccessTTL = 15 * time.Minute
	cfg.Token.RefreshTTL = 24 * time.Hour
	cfg.Account.DefaultRole = "user"
	// cheapest argon2 parameters the hasher accepts
	cfg.Password = PasswordConfig{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *mockUserStore, *testClock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := engineTestConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	store := newMockUserStore()
	clock := newTestClock()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(store).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, store, clock, mr
}

func mustRegister(t *testing.T, engine *Engine, email, password string) *RegisterResult {
	t.Helper()

	res, err := engine.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return res
}
