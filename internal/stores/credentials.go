package stores

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrCredentialNotFound marks an identity without a credential record.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrCredentialUnavailable marks a backend I/O failure in a caller-supplied
	// credential store. Terminal for the current operation.
	ErrCredentialUnavailable = errors.New("credential store unavailable")
)

// CredentialStore maps an identity to its password hash. Create does not
// enforce uniqueness — a duplicate create overwrites — so the engine performs
// the existence check; two racing registrations resolve as last-writer-wins
// with exactly one hash retrievable afterwards.
type CredentialStore interface {
	Exists(ctx context.Context, identity string) (bool, error)
	Create(ctx context.Context, identity, passwordHash string) error
	GetPasswordHash(ctx context.Context, identity string) (string, error)
}

// MemoryCredentialStore is the in-process reference implementation. Callers
// integrating a real user database supply their own CredentialStore instead.
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	hashes map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		hashes: make(map[string]string),
	}
}

func (s *MemoryCredentialStore) Exists(_ context.Context, identity string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.hashes[identity]
	return ok, nil
}

func (s *MemoryCredentialStore) Create(_ context.Context, identity, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hashes[identity] = passwordHash
	return nil
}

func (s *MemoryCredentialStore) GetPasswordHash(_ context.Context, identity string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.hashes[identity]
	if !ok {
		return "", ErrCredentialNotFound
	}
	return hash, nil
}
