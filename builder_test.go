package bonsaiauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"zero otp ttl":      func(c *Config) { c.OTP.TTL = 0 },
		"zero window":       func(c *Config) { c.RateLimit.Window = 0 },
		"zero max requests": func(c *Config) { c.RateLimit.MaxRequests = 0 },
		"zero proof ttl":    func(c *Config) { c.Proof.TTL = 0 },
		"zero timeout":      func(c *Config) { c.StoreTimeout = 0 },
		"weak argon memory": func(c *Config) { c.Password.Memory = 64 },
	} {
		cfg := testConfig()
		mutate(&cfg)
		if _, err := New().WithConfig(cfg).Build(); err == nil {
			t.Fatalf("%s: expected build error", name)
		}
	}
}

// The builder clones its config: mutating the caller's value after Build must
// not change engine behavior.
func TestBuilderClonesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxRequests = 1

	b := New().WithConfig(cfg)
	cfg.RateLimit.MaxRequests = 100
	cfg.Proof.Secret = []byte("mutated-after-the-fact")

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "password")
	if _, err := engine.RequestOTP(ctx, "alice@example.com"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := engine.RequestOTP(ctx, "alice@example.com"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected the snapshot limit of 1 to hold, got %v", err)
	}
}

// Without Redis the engine runs end-to-end on the in-process fallback.
func TestMemoryFallbackEndToEnd(t *testing.T) {
	engine, notifier, done := newMemoryEngineTest(t, testConfig())
	defer done()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "password")
	code := requestCode(t, engine, notifier, "alice@example.com")

	result, err := engine.Login(ctx, LoginRequest{
		Identity: "alice@example.com",
		OTP:      code,
	})
	if err != nil {
		t.Fatalf("otp login: %v", err)
	}
	if _, err := engine.VerifyProof(result.Proof); err != nil {
		t.Fatalf("verify proof: %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := engine.RequestOTP(ctx, "alice@example.com"); err != nil {
			t.Fatalf("request %d: %v", i+2, err)
		}
	}
	if _, err := engine.RequestOTP(ctx, "alice@example.com"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected fallback rate limit, got %v", err)
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false

	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	mustRegister(t, engine, "alice@example.com", "password")

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricRegisterSuccess] != 0 {
		t.Fatalf("expected disabled metrics to stay zero, got %d", snap.Counters[MetricRegisterSuccess])
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.OTP.TTL != 5*time.Minute {
		t.Fatalf("expected 5m OTP TTL, got %v", cfg.OTP.TTL)
	}
	if cfg.RateLimit.Window != time.Hour || cfg.RateLimit.MaxRequests != 5 {
		t.Fatalf("expected 5 requests per hour, got %d per %v", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}
}
