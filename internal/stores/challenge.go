package stores

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrChallengeNotFound marks an absent or expired OTP value.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrChallengeUnavailable marks a backend I/O failure. Terminal for the
	// current operation.
	ErrChallengeUnavailable = errors.New("challenge store unavailable")
)

// ChallengeStore holds short-lived OTP challenges and their request counters.
// Implementations must be safe for concurrent use and must keep the two key
// namespaces independent: writing a code never touches the counter and vice
// versa.
type ChallengeStore interface {
	// SetOTP stores code for the identity, overwriting any live value. The
	// previous challenge, if any, is thereby invalidated.
	SetOTP(ctx context.Context, identity, code string, ttl time.Duration) error

	// GetOTP returns the live code or ErrChallengeNotFound. An entry past its
	// expiry is absent even when not yet evicted.
	GetOTP(ctx context.Context, identity string) (string, error)

	// DeleteOTP removes the challenge. Deleting an absent key is not an error.
	DeleteOTP(ctx context.Context, identity string) error

	// IncrRequestCount atomically increments the identity's request counter
	// and returns the new count. The first increment of a fresh or expired
	// window resets the counter to 1 and arms expiry at now + window; that
	// reset and the expiry arming are atomic per key.
	IncrRequestCount(ctx context.Context, identity string, window time.Duration) (int64, error)
}
