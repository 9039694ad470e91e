package bonsaiauth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestRequestOTPUnknownUser(t *testing.T) {
	engine, _, _, done := newEngineTest(t, testConfig())
	defer done()

	_, err := engine.RequestOTP(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestRequestOTPDeliversSixDigitCode(t *testing.T) {
	engine, notifier, _, done := newEngineTest(t, testConfig())
	defer done()

	mustRegister(t, engine, "alice@example.com", "password")

	result, err := engine.RequestOTP(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if result.Remaining != 4 {
		t.Fatalf("expected 4 remaining, got %d", result.Remaining)
	}

	code := lastDelivery(t, notifier).Code
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		t.Fatalf("code is not numeric: %q", code)
	}
	if n < 100000 || n > 999999 {
		t.Fatalf("code out of range: %d", n)
	}
}

func TestRequestOTPRateLimit(t *testing.T) {
	engine, _, _, done := newEngineTest(t, testConfig())
	defer done()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "password")

	for i := 1; i <= 5; i++ {
		result, err := engine.RequestOTP(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if want := int64(5 - i); result.Remaining != want {
			t.Fatalf("request %d: expected %d remaining, got %d", i, want, result.Remaining)
		}
	}

	_, err := engine.RequestOTP(ctx, "alice@example.com")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited on 6th request, got %v", err)
	}

	var limitErr *RateLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected *RateLimitError, got %T", err)
	}
	if limitErr.Count != 6 {
		t.Fatalf("expected count 6, got %d", limitErr.Count)
	}

	// The rejected request consumed budget too.
	_, err = engine.RequestOTP(ctx, "alice@example.com")
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected *RateLimitError on 7th request, got %v", err)
	}
	if limitErr.Count != 7 {
		t.Fatalf("expected count 7, got %d", limitErr.Count)
	}
}

func TestRequestOTPWindowReset(t *testing.T) {
	engine, _, mr, done := newEngineTest(t, testConfig())
	defer done()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "password")

	for i := 0; i < 5; i++ {
		if _, err := engine.RequestOTP(ctx, "alice@example.com"); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}
	if _, err := engine.RequestOTP(ctx, "alice@example.com"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(time.Hour + time.Second)

	result, err := engine.RequestOTP(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("request after window reset: %v", err)
	}
	if result.Remaining != 4 {
		t.Fatalf("expected fresh window with 4 remaining, got %d", result.Remaining)
	}
}

func TestRequestOTPRateLimitPerIdentity(t *testing.T) {
	engine, _, _, done := newEngineTest(t, testConfig())
	defer done()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "password")
	mustRegister(t, engine, "bob@example.com", "password")

	for i := 0; i < 5; i++ {
		if _, err := engine.RequestOTP(ctx, "alice@example.com"); err != nil {
			t.Fatalf("alice request %d: %v", i+1, err)
		}
	}
	if _, err := engine.RequestOTP(ctx, "alice@example.com"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected alice rate limited, got %v", err)
	}

	if _, err := engine.RequestOTP(ctx, "bob@example.com"); err != nil {
		t.Fatalf("bob must have his own window: %v", err)
	}
}

func TestRequestOTPOverwritesPreviousCode(t *testing.T) {
	engine, notifier, _, done := newEngineTest(t, testConfig())
	defer done()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "password")

	first := requestCode(t, engine, notifier, "alice@example.com")
	second := requestCode(t, engine, notifier, "alice@example.com")
	if first == second {
		t.Skip("codes collided; nothing to assert")
	}

	if _, err := engine.Login(ctx, LoginRequest{
		Identity: "alice@example.com",
		OTP:      first,
	}); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected superseded code to fail, got %v", err)
	}

	if _, err := engine.Login(ctx, LoginRequest{
		Identity: "alice@example.com",
		OTP:      second,
	}); err != nil {
		t.Fatalf("expected latest code to verify: %v", err)
	}
}

type failingNotifier struct{}

func (failingNotifier) SendOTP(context.Context, string, string) error {
	return errors.New("smtp connection refused")
}

func TestRequestOTPDeliveryFailureBestEffort(t *testing.T) {
	engine, err := New().
		WithConfig(testConfig()).
		WithNotifier(failingNotifier{}).
		Build()
	if err != nil {
		t.Fatalf("engine build: %v", err)
	}
	defer engine.Close()
	ctx := context.Background()

	mustRegister(t, engine, "alice@example.com", "secret-password")

	// The challenge is stored regardless of delivery, so the request succeeds
	// and a password login still works.
	result, err := engine.RequestOTP(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected best-effort success, got %v", err)
	}
	if result.Remaining != 4 {
		t.Fatalf("expected 4 remaining, got %d", result.Remaining)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricOTPDeliveryFailure] != 1 {
		t.Fatalf("expected 1 delivery failure, got %d", snap.Counters[MetricOTPDeliveryFailure])
	}
	if snap.Counters[MetricOTPIssued] != 1 {
		t.Fatalf("expected 1 issued challenge, got %d", snap.Counters[MetricOTPIssued])
	}
}

func TestRequestOTPDeliveryFailureFatal(t *testing.T) {
	cfg := testConfig()
	cfg.OTP.DeliveryFailureFatal = true

	engine, err := New().
		WithConfig(cfg).
		WithNotifier(failingNotifier{}).
		Build()
	if err != nil {
		t.Fatalf("engine build: %v", err)
	}
	defer engine.Close()

	mustRegister(t, engine, "alice@example.com", "secret-password")

	if _, err := engine.RequestOTP(context.Background(), "alice@example.com"); err == nil {
		t.Fatal("expected delivery failure to surface")
	}
}

func TestRequestOTPStoreUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.StoreTimeout = 100 * time.Millisecond

	engine, _, mr, done := newEngineTest(t, cfg)
	defer done()

	mustRegister(t, engine, "alice@example.com", "password")

	mr.Close()

	_, err := engine.RequestOTP(context.Background(), "alice@example.com")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
