package bonsaiauth

import (
	"errors"
	"time"
)

// Config defines engine behavior. Instances are configured before Build and
// treated as immutable afterwards; the builder clones the value it is given.
type Config struct {
	OTP       OTPConfig
	RateLimit RateLimitConfig
	Password  PasswordConfig
	Proof     ProofConfig
	Audit     AuditConfig
	Metrics   MetricsConfig

	// StoreTimeout bounds each shared-backend call. A timed-out operation is
	// a hard failure of that operation (ErrStoreUnavailable), never a silent
	// fallback. Ignored by the in-process store.
	StoreTimeout time.Duration
}

// OTPConfig controls challenge issuance.
type OTPConfig struct {
	// TTL is the challenge lifetime. An unused code is treated as absent
	// after TTL even if never evicted.
	TTL time.Duration

	// DeliveryFailureFatal surfaces notifier errors to RequestOTP callers.
	// Default false: the code was stored regardless of delivery, so the
	// request still reports success and the failure is only audited.
	DeliveryFailureFatal bool
}

// RateLimitConfig controls the fixed, non-sliding request window. The window
// resets only when the counter expires; it never slides.
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int64
}

// PasswordConfig holds Argon2id parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// ProofConfig controls the credential proof returned by Login. When Secret is
// empty, Build generates an ephemeral random secret; proofs then survive only
// as long as the process.
type ProofConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the production defaults: 5-minute OTP TTL, 5 requests
// per rolling hour, Argon2id 64MB/t=3/p=2, 10-minute proofs.
func DefaultConfig() Config {
	return Config{
		OTP: OTPConfig{
			TTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Window:      time.Hour,
			MaxRequests: 5,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Proof: ProofConfig{
			TTL:    10 * time.Minute,
			Issuer: "bonsai-auth",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		StoreTimeout: 5 * time.Second,
	}
}

func defaultConfig() Config { return DefaultConfig() }

// Validate checks invariants the engine relies on. Password parameters are
// validated separately by the hasher.
func (c Config) Validate() error {
	if c.OTP.TTL <= 0 {
		return errors.New("OTP.TTL must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RateLimit.Window must be positive")
	}
	if c.RateLimit.MaxRequests < 1 {
		return errors.New("RateLimit.MaxRequests must be >= 1")
	}
	if c.Proof.TTL <= 0 {
		return errors.New("Proof.TTL must be positive")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("StoreTimeout must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Proof.Secret != nil {
		out.Proof.Secret = append([]byte(nil), cfg.Proof.Secret...)
	}
	return out
}
