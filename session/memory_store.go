package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process session store. Used when no Redis address
// is configured; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

// Create stores a session keyed by its ID.
func (m *MemoryStore) Create(_ context.Context, s Session) error {
	if s.ID == "" || s.UserID == "" {
		return fmt.Errorf("session: missing id or user id")
	}
	if !time.Now().Before(s.ExpiresAt) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get returns the session, or nil when it is absent or expired. Expired
// entries are removed lazily.
func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if s.Expired(time.Now()) {
		delete(m.sessions, sessionID)
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
