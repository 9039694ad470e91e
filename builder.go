package bonsaiauth

import (
	"errors"

	"github.com/Alex03Immanuel/bonsai-auth/internal/stores"
	"github.com/Alex03Immanuel/bonsai-auth/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine methods are called.
//
// Backend selection is the builder's one irreversible decision: a Redis
// client supplied via [Builder.WithRedis] makes the challenge store shared
// across instances; without one, the engine runs on the in-process fallback.
// The engine never re-checks this per call and never falls back mid-request.
type Builder struct {
	config      Config
	redis       redis.UniversalClient
	credentials stores.CredentialStore
	notifier    Notifier
	auditSink   AuditSink

	built bool
}

// New returns a Builder loaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. The value is cloned.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects the shared challenge-store backend.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore supplies the durable credential backend. Defaults to
// the in-process reference store.
func (b *Builder) WithCredentialStore(cs CredentialStore) *Builder {
	b.credentials = cs
	return b
}

// WithNotifier supplies the OTP delivery transport. Defaults to [NoOpNotifier].
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithAuditSink supplies the audit event sink. Defaults to [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and assembles the engine. A builder can
// be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	proof, err := newProofManager(cfg.Proof)
	if err != nil {
		return nil, err
	}

	// -------- CHALLENGE BACKEND (decided here, once) --------
	var challenges stores.ChallengeStore
	if b.redis != nil {
		challenges = stores.NewRedisChallengeStore(b.redis, cfg.StoreTimeout)
	} else {
		challenges = stores.NewMemoryChallengeStore()
	}

	credentials := b.credentials
	if credentials == nil {
		credentials = stores.NewMemoryCredentialStore()
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = NoOpNotifier{}
	}

	b.built = true

	return &Engine{
		config:       cfg,
		credentials:  credentials,
		challenges:   challenges,
		notifier:     notifier,
		passwordHash: hasher,
		proof:        proof,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
	}, nil
}
