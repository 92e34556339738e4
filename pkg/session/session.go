// Package session keeps track of which issued bearer tokens are still
// logged in. Each request resolves its identity through a Store instead of
// any process-global state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSession is returned when a session id is unknown or expired
var ErrNoSession = errors.New("session not found")

// Identity is the authenticated caller as seen by request handlers
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Store persists identities keyed by session id
type Store interface {
	GetIdentity(ctx context.Context, sessionID string) (Identity, error)
	SetIdentity(ctx context.Context, sessionID string, identity Identity, ttl time.Duration) error
	Clear(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryStore is a process-local Store used in development and tests
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) GetIdentity(_ context.Context, sessionID string) (Identity, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return Identity{}, ErrNoSession
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return Identity{}, ErrNoSession
	}
	return entry.identity, nil
}

func (s *MemoryStore) SetIdentity(_ context.Context, sessionID string, identity Identity, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}

	entry := memoryEntry{identity: identity}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}
