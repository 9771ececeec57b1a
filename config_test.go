package credlock

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = []byte("config-test-secret")
	return cfg
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lockout.Threshold != 5 {
		t.Fatalf("expected threshold 5, got %d", cfg.Lockout.Threshold)
	}
	if cfg.Lockout.Duration != 15*time.Minute {
		t.Fatalf("expected 15m lock window, got %v", cfg.Lockout.Duration)
	}
	if cfg.Token.SigningMethod != "hs256" {
		t.Fatalf("expected hs256 default, got %q", cfg.Token.SigningMethod)
	}
	if cfg.Token.RotateRefreshOnUse {
		t.Fatal("refresh rotation must be off by default")
	}
	if cfg.Revocation.RedisPrefix == "" {
		t.Fatal("expected a default ledger prefix")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", nil, false},
		{"zero access ttl", func(c *Config) { c.Token.AccessTTL = 0 }, true},
		{"zero refresh ttl", func(c *Config) { c.Token.RefreshTTL = 0 }, true},
		{"refresh shorter than access", func(c *Config) { c.Token.RefreshTTL = c.Token.AccessTTL - time.Hour }, true},
		{"unknown signing method", func(c *Config) { c.Token.SigningMethod = "rs256" }, true},
		{"hs256 without key", func(c *Config) { c.Token.PrivateKey = nil }, true},
		{"negative leeway", func(c *Config) { c.Token.Leeway = -time.Second }, true},
		{"zero threshold", func(c *Config) { c.Lockout.Threshold = 0 }, true},
		{"zero lock duration", func(c *Config) { c.Lockout.Duration = 0 }, true},
		{"empty ledger prefix", func(c *Config) { c.Revocation.RedisPrefix = "" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			if tc.mutate != nil {
				tc.mutate(&cfg)
			}
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestCloneConfig_IndependentKeyBytes(t *testing.T) {
	cfg := validTestConfig()
	cfg.Token.VerifyKeys = map[string][]byte{"k1": []byte("rotation-key")}

	clone := cloneConfig(cfg)

	cfg.Token.PrivateKey[0] = 'X'
	cfg.Token.VerifyKeys["k1"][0] = 'X'

	if clone.Token.PrivateKey[0] == 'X' {
		t.Fatal("clone shares private key bytes with the original")
	}
	if clone.Token.VerifyKeys["k1"][0] == 'X' {
		t.Fatal("clone shares verify key bytes with the original")
	}
}
