package token

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory RevocationStore. Data is lost when the
// process exits, which matches the lifetime of the tokens it tracks as
// long as the process outlives the session TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

var _ RevocationStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if strings.TrimSpace(jti) == "" {
		return errors.New("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt

	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	// An entry past its expiry is dead either way; Verify rejects it on
	// the expiry check before consulting the store.
	return time.Now().Before(expiresAt), nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for jti, expiresAt := range s.revoked {
		if now.After(expiresAt) {
			delete(s.revoked, jti)
		}
	}

	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
