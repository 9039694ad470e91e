package stores

import (
	"context"
	"sync"
	"time"
)

type memoryValue struct {
	code      string
	expiresAt time.Time
}

type memoryCounter struct {
	count     int64
	expiresAt time.Time
}

// MemoryChallengeStore is the process-local fallback, used only when no
// shared backend is configured. It has no eviction sweep; expiry is enforced
// lazily on read, so an expired-but-resident entry is indistinguishable from
// an absent one.
type MemoryChallengeStore struct {
	mu       sync.Mutex
	values   map[string]memoryValue
	counters map[string]memoryCounter

	now func() time.Time
}

// NewMemoryChallengeStore returns an empty fallback store.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		values:   make(map[string]memoryValue),
		counters: make(map[string]memoryCounter),
		now:      time.Now,
	}
}

func (s *MemoryChallengeStore) SetOTP(_ context.Context, identity, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[identity] = memoryValue{
		code:      code,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryChallengeStore) GetOTP(_ context.Context, identity string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[identity]
	if !ok {
		return "", ErrChallengeNotFound
	}
	if !s.now().Before(v.expiresAt) {
		delete(s.values, identity)
		return "", ErrChallengeNotFound
	}
	return v.code, nil
}

func (s *MemoryChallengeStore) DeleteOTP(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, identity)
	return nil
}

// IncrRequestCount holds the lock across the expired-check, reset, and
// increment so two concurrent first-requests cannot both initialize the
// window.
func (s *MemoryChallengeStore) IncrRequestCount(_ context.Context, identity string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[identity]
	if !ok || !now.Before(c.expiresAt) {
		c = memoryCounter{
			count:     0,
			expiresAt: now.Add(window),
		}
	}
	c.count++
	s.counters[identity] = c

	return c.count, nil
}

// SetNow overrides the store clock. Test hook.
func (s *MemoryChallengeStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
