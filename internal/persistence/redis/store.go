// Package redis keeps screen sessions in Redis so several processes can serve
// the same screens.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/booking-screen/internal/persistence"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "booking:screen:"

// ScreenSessionStore implements persistence.ScreenSessionRepository with one
// JSON value per session. Each save resets the key TTL.
type ScreenSessionStore struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewScreenSessionStore creates a store. A non-positive ttl keeps keys forever.
func NewScreenSessionStore(client goredis.UniversalClient, prefix string, ttl time.Duration) *ScreenSessionStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &ScreenSessionStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ScreenSessionStore) key(id string) string {
	return s.prefix + id
}

// SaveScreenSession writes session under its ID.
func (s *ScreenSessionStore) SaveScreenSession(ctx context.Context, session persistence.ScreenSession) error {
	if strings.TrimSpace(session.ID) == "" {
		return persistence.ErrConstraintViolation
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: marshal screen session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save screen session: %w", err)
	}
	return nil
}

// GetScreenSession returns the session or persistence.ErrNotFound.
func (s *ScreenSessionStore) GetScreenSession(ctx context.Context, id string) (persistence.ScreenSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return persistence.ScreenSession{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.ScreenSession{}, fmt.Errorf("redis: get screen session: %w", err)
	}

	var session persistence.ScreenSession
	if err := json.Unmarshal(data, &session); err != nil {
		return persistence.ScreenSession{}, fmt.Errorf("%w: redis key %s: %v", persistence.ErrCorruptRecord, s.key(id), err)
	}
	return session, nil
}

// DeleteScreenSession removes the session or returns persistence.ErrNotFound.
func (s *ScreenSessionStore) DeleteScreenSession(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis: delete screen session: %w", err)
	}
	if removed == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// CountScreenSessions scans the key prefix.
func (s *ScreenSessionStore) CountScreenSessions(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis: count screen sessions: %w", err)
	}
	return count, nil
}

// Ping checks connectivity.
func (s *ScreenSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
