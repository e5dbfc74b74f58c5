package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/training-portal/internal/cache"
	"github.com/SAP-F-2025/training-portal/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Store keeps logged-in sessions keyed by an opaque id
type Store interface {
	Create(ctx context.Context, sess models.Session) (string, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}

// ===== MEMORY =====

// MemoryStore keeps sessions for the lifetime of the process
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

func (s *MemoryStore) Create(_ context.Context, sess models.Session) (string, error) {
	id := newID()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// ===== REDIS =====

// RedisStore shares sessions between portal replicas
type RedisStore struct {
	helper *cache.CacheHelper
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		helper: cache.NewCacheHelper(client, "session:"),
		ttl:    ttl,
	}
}

func (s *RedisStore) Create(ctx context.Context, sess models.Session) (string, error) {
	id := newID()
	if err := s.helper.Set(ctx, id, sess, s.ttl); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.helper.Get(ctx, id, &sess); err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	cache.SafeDelete(ctx, s.helper, id)
	return nil
}
