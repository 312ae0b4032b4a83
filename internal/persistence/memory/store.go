// Package memory keeps screen sessions in a bounded, expiring in-process cache.
package memory

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/example/booking-screen/internal/persistence"
)

// DefaultSize bounds the cache when a non-positive size is supplied.
const DefaultSize = 1024

// ScreenSessionStore implements persistence.ScreenSessionRepository on an
// expirable LRU cache. Saving a session refreshes its TTL; the least recently
// used session is evicted once the cache is full.
type ScreenSessionStore struct {
	cache *expirable.LRU[string, persistence.ScreenSession]
}

// NewScreenSessionStore creates a store holding at most size sessions, each
// for ttl after its last save. A non-positive ttl disables expiry.
func NewScreenSessionStore(size int, ttl time.Duration) *ScreenSessionStore {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl < 0 {
		ttl = 0
	}
	return &ScreenSessionStore{cache: expirable.NewLRU[string, persistence.ScreenSession](size, nil, ttl)}
}

// SaveScreenSession stores session under its ID.
func (s *ScreenSessionStore) SaveScreenSession(ctx context.Context, session persistence.ScreenSession) error {
	if strings.TrimSpace(session.ID) == "" {
		return persistence.ErrConstraintViolation
	}
	s.cache.Add(session.ID, session)
	return nil
}

// GetScreenSession returns the session or persistence.ErrNotFound.
func (s *ScreenSessionStore) GetScreenSession(ctx context.Context, id string) (persistence.ScreenSession, error) {
	session, ok := s.cache.Get(id)
	if !ok {
		return persistence.ScreenSession{}, persistence.ErrNotFound
	}
	return session, nil
}

// DeleteScreenSession removes the session or returns persistence.ErrNotFound.
func (s *ScreenSessionStore) DeleteScreenSession(ctx context.Context, id string) error {
	if !s.cache.Remove(id) {
		return persistence.ErrNotFound
	}
	return nil
}

// CountScreenSessions reports live sessions.
func (s *ScreenSessionStore) CountScreenSessions(ctx context.Context) (int, error) {
	return len(s.cache.Keys()), nil
}
