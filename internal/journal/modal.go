package journal

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/KevinDKao/running-diary/internal/view"

	"github.com/redis/go-redis/v9"
)

// ModalStore holds the workout form of each session between requests.
// Load returns a closed modal when nothing is stored.
type ModalStore interface {
	Load(ctx context.Context, sessionID string) (view.Modal, error)
	Save(ctx context.Context, sessionID string, m view.Modal) error
	Clear(ctx context.Context, sessionID string) error
}

type RedisModalStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisModalStore(rdb *redis.Client, ttl time.Duration) *RedisModalStore {
	return &RedisModalStore{rdb: rdb, ttl: ttl}
}

func modalKey(sessionID string) string {
	return "journal:" + sessionID + ":modal"
}

func (s *RedisModalStore) Load(ctx context.Context, sessionID string) (view.Modal, error) {
	raw, err := s.rdb.Get(ctx, modalKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return view.ClosedModal(), nil
	}
	if err != nil {
		return view.Modal{}, err
	}
	var m view.Modal
	if err := json.Unmarshal(raw, &m); err != nil {
		return view.Modal{}, err
	}
	return m, nil
}

func (s *RedisModalStore) Save(ctx context.Context, sessionID string, m view.Modal) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, modalKey(sessionID), raw, s.ttl).Err()
}

func (s *RedisModalStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, modalKey(sessionID)).Err()
}

// MemoryModalStore keeps modals in process. It is for single-instance
// development runs and tests, where Redis is not configured.
type MemoryModalStore struct {
	mu     sync.Mutex
	modals map[string]view.Modal
}

func NewMemoryModalStore() *MemoryModalStore {
	return &MemoryModalStore{modals: map[string]view.Modal{}}
}

func (s *MemoryModalStore) Load(_ context.Context, sessionID string) (view.Modal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.modals[sessionID]
	if !ok {
		return view.ClosedModal(), nil
	}
	return m, nil
}

func (s *MemoryModalStore) Save(_ context.Context, sessionID string, m view.Modal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals[sessionID] = m
	return nil
}

func (s *MemoryModalStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modals, sessionID)
	return nil
}
