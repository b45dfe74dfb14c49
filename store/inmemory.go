package store

import (
	"context"
	"sync"
	"time"

	ikerrors "github.com/sweetpotato0/intakekit/errors"
)

// InMemoryStore is a SessionStore for tests and single-process use.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

// Get returns a copy of the stored session.
func (s *InMemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ikerrors.ErrNotFound
	}
	out := *session
	out.Answers = copyAnswers(session.Answers)
	out.SelectedIDs = append([]string(nil), session.SelectedIDs...)
	return &out, nil
}

// Put stores a session, stamping timestamps.
func (s *InMemoryStore) Put(ctx context.Context, session *Session) error {
	if session == nil {
		return ikerrors.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := *session
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	stored.Answers = copyAnswers(session.Answers)
	stored.SelectedIDs = append([]string(nil), session.SelectedIDs...)
	s.sessions[session.ID] = &stored
	return nil
}

// Delete removes a session.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ikerrors.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func copyAnswers(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// InMemoryCache is a Cache for tests and single-process use. Entries
// never expire.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: make(map[string][]byte)}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return nil
}
