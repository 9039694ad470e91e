package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key namespaces. The counter key is deliberately disjoint from the value
// key so EXPIRE on one can never clobber the other's TTL.
const (
	otpKeyPrefix     = "otp:"
	requestKeyPrefix = "otpreq:"
)

// RedisChallengeStore is the shared backend. Native TTLs handle code expiry;
// INCR provides the single hard atomicity requirement. Every call runs under
// the configured timeout; a timeout is a hard failure of that call.
type RedisChallengeStore struct {
	redis   redis.UniversalClient
	timeout time.Duration
}

// NewRedisChallengeStore wraps an already-connected client. The store does
// not own the client lifecycle.
func NewRedisChallengeStore(redisClient redis.UniversalClient, timeout time.Duration) *RedisChallengeStore {
	return &RedisChallengeStore{
		redis:   redisClient,
		timeout: timeout,
	}
}

func (s *RedisChallengeStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// SetOTP describes the set operation on the shared backend. SET with a TTL
// overwrites any prior value and its remaining lifetime in one command.
func (s *RedisChallengeStore) SetOTP(ctx context.Context, identity, code string, ttl time.Duration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.redis.Set(ctx, otpKeyPrefix+identity, code, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	return nil
}

func (s *RedisChallengeStore) GetOTP(ctx context.Context, identity string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	code, err := s.redis.Get(ctx, otpKeyPrefix+identity).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrChallengeNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	return code, nil
}

func (s *RedisChallengeStore) DeleteOTP(ctx context.Context, identity string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.redis.Del(ctx, otpKeyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	return nil
}

func (s *RedisChallengeStore) IncrRequestCount(ctx context.Context, identity string, window time.Duration) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := requestKeyPrefix + identity

	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}

	// Fixed-window semantics: arm expiry only for the first hit in the window.
	if count == 1 {
		if err := s.redis.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
		}
	}

	return count, nil
}
