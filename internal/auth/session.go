package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound signals a missing or expired session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps opaque session ids to user ids. The token layer
// proves integrity; the store is the source of truth for liveness, so
// deleting a session revokes access immediately.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore returns the production Redis-backed store.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client, prefix: "session:"}
}

func (s *redisSessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+sessionID, userID, ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}

type memorySessionEntry struct {
	userID    string
	expiresAt time.Time
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySessionEntry
}

// NewMemorySessionStore returns an in-process store used by tests and
// single-node development setups.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]memorySessionEntry)}
}

func (s *memorySessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memorySessionEntry{userID: userID}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.sessions[sessionID] = entry
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return "", ErrSessionNotFound
	}
	return entry.userID, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
