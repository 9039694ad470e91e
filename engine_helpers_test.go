package bonsaiauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testConfig keeps hashing cheap so every test can register freely.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

// newEngineTest builds a Redis-backed engine over miniredis with a channel
// notifier, so tests can read back issued codes.
func newEngineTest(t *testing.T, cfg Config) (*Engine, *ChannelNotifier, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	notifier := NewChannelNotifier(16)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithNotifier(notifier).
		Build()
	if err != nil {
		t.Fatalf("engine build: %v", err)
	}

	return engine, notifier, mr, func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

// newMemoryEngineTest builds an engine on the in-process fallback store.
func newMemoryEngineTest(t *testing.T, cfg Config) (*Engine, *ChannelNotifier, func()) {
	t.Helper()

	notifier := NewChannelNotifier(16)
	engine, err := New().
		WithConfig(cfg).
		WithNotifier(notifier).
		Build()
	if err != nil {
		t.Fatalf("engine build: %v", err)
	}
	return engine, notifier, func() { engine.Close() }
}

// lastDelivery drains the notifier and returns the most recent delivery.
// RequestOTP awaits SendOTP, so the delivery is buffered before it returns.
func lastDelivery(t *testing.T, notifier *ChannelNotifier) Delivery {
	t.Helper()

	var d Delivery
	received := false
	for {
		select {
		case d = <-notifier.Deliveries():
			received = true
		default:
			if !received {
				t.Fatal("expected at least one delivery")
			}
			return d
		}
	}
}

func mustRegister(t *testing.T, engine *Engine, identity, password string) {
	t.Helper()
	if err := engine.Register(context.Background(), identity, password); err != nil {
		t.Fatalf("register %s: %v", identity, err)
	}
}

func requestCode(t *testing.T, engine *Engine, notifier *ChannelNotifier, identity string) string {
	t.Helper()
	if _, err := engine.RequestOTP(context.Background(), identity); err != nil {
		t.Fatalf("request otp for %s: %v", identity, err)
	}
	d := lastDelivery(t, notifier)
	if d.Identity != identity {
		t.Fatalf("delivery went to %s, expected %s", d.Identity, identity)
	}
	return d.Code
}
