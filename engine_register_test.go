package credlock

import (
	"context"
	"errors"
	"testing"
)

func TestRegister_IssuesTokensAndPersistsRecord(t *testing.T) {
	engine, store, _, _ := newTestEngine(t, nil)

	res := mustRegister(t, engine, "alice@example.com", "correct-horse")

	if res.UserID == "" {
		t.Fatal("expected a generated user ID")
	}
	if res.Role != "user" {
		t.Fatalf("expected default role, got %q", res.Role)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens after registration")
	}
	if res.Tokens.ExpiresIn != 15*60 {
		t.Fatalf("expected ExpiresIn=900, got %d", res.Tokens.ExpiresIn)
	}

	rec := store.get(t, res.UserID)
	if rec.Email != "alice@example.com" {
		t.Fatalf("unexpected stored email %q", rec.Email)
	}
	if rec.PasswordHash == "" || rec.PasswordHash == "correct-horse" {
		t.Fatal("expected a derived password hash in the record")
	}
	if rec.RefreshToken != res.Tokens.RefreshToken {
		t.Fatal("stored refresh token does not match the issued one")
	}
	if rec.RefreshTokenExpiry == nil {
		t.Fatal("expected a refresh expiry on the record")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	engine, store, _, _ := newTestEngine(t, nil)

	res := mustRegister(t, engine, "  Alice@Example.COM ", "correct-horse")

	rec := store.get(t, res.UserID)
	if rec.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", rec.Email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, nil)

	mustRegister(t, engine, "alice@example.com", "correct-horse")

	_, err := engine.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "another-password",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_MalformedEmail(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, nil)

	for _, email := range []string{"", "no-at-sign", "two words@example.com"} {
		_, err := engine.Register(context.Background(), RegisterRequest{
			Email:    email,
			Password: "correct-horse",
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("email %q: expected ErrValidation, got %v", email, err)
		}
	}
}

func TestRegister_PasswordPolicy(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, nil)

	for _, pwd := range []string{"", "short"} {
		_, err := engine.Register(context.Background(), RegisterRequest{
			Email:    "alice@example.com",
			Password: pwd,
		})
		if !errors.Is(err, ErrPasswordPolicy) {
			t.Fatalf("password %q: expected ErrPasswordPolicy, got %v", pwd, err)
		}
	}
}

func TestRegister_ExplicitRoleKept(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, nil)

	res, err := engine.Register(context.Background(), RegisterRequest{
		Email:    "root@example.com",
		Password: "correct-horse",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if res.Role != "admin" {
		t.Fatalf("expected explicit role preserved, got %q", res.Role)
	}
}

func TestRegister_DisabledAccounts(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Account.Enabled = false
	})

	_, err := engine.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation with registration disabled, got %v", err)
	}
}

func TestRegister_SaveFailureReturnsNoTokens(t *testing.T) {
	engine, store, _, _ := newTestEngine(t, nil)

	store.setSaveErr(errors.New("disk full"))

	_, err := engine.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
