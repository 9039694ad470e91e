package bonsaiauth

import (
	"errors"
	"fmt"
)

var (
	// ErrUserExists is returned by Register when the identity already has a
	// credential record.
	ErrUserExists = errors.New("user already exists")
	// ErrUnknownUser is returned when no credential record exists for the
	// identity.
	ErrUnknownUser = errors.New("unknown user")
	// ErrRateLimited is returned by RequestOTP when the fixed-window request
	// budget is exhausted. The concrete error is a [RateLimitError].
	ErrRateLimited = errors.New("too many otp requests")
	// ErrInvalidPassword is returned by Login when the supplied password does
	// not verify against the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidOTP is returned by Login when the supplied code does not match
	// a live challenge (wrong, already used, or expired).
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrMissingCredentials is returned by Login when neither a password nor
	// an otp was supplied.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrStoreUnavailable is returned when a backend store operation fails.
	// Backend failures are terminal for the current request; nothing is
	// retried and the engine never falls back to another backend mid-call.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is returned when the engine is used before Build
	// completed.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// RateLimitError carries the current request count for the live window. The
// rejected request itself counts: the sixth request in a window reports
// Count == 6. Matches [ErrRateLimited] under errors.Is.
type RateLimitError struct {
	Count int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many otp requests (%d in window)", e.Count)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
