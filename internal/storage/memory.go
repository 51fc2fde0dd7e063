package storage

import (
	"context"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Compile-time interface check.
var _ domain.CredentialStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory credential store. Sessions do not survive a
// restart; used in tests and as the fallback when the state database cannot
// be opened. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// Save stores the pair, replacing any previous one.
func (s *MemoryStore) Save(ctx context.Context, token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.log.Debug("storage: credentials saved in memory (user=%s)", user.ID)
	return nil
}

// Load returns the stored pair, or absent ("", nil) when nothing is stored.
func (s *MemoryStore) Load(ctx context.Context) (string, *domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.user == nil {
		return "", nil, nil
	}
	u := *s.user
	return s.token, &u, nil
}

// Clear removes the stored pair.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
