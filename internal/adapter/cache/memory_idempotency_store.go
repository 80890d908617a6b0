package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dulcecostawork-hub/minifood-api/internal/usecase"
)

type memEntry struct {
	value   string
	expires time.Time
}

// MemoryIdempotencyStore is the default idempotency backend when no Redis is
// configured. Entries expire lazily on access.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	locks   map[string]memEntry
	values  map[string]memEntry
	nowFunc func() time.Time
}

func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		ttl:     ttl,
		locks:   make(map[string]memEntry),
		values:  make(map[string]memEntry),
		nowFunc: time.Now,
	}
}

func (s *MemoryIdempotencyStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	now := s.nowFunc()
	if e, ok := s.locks[k]; ok && now.Before(e.expires) {
		return false, nil
	}
	s.locks[k] = memEntry{value: "1", expires: now.Add(s.ttl)}
	return true, nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, scope+":"+key)
	return nil
}

func (s *MemoryIdempotencyStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[scope+":"+key] = memEntry{value: value, expires: s.nowFunc().Add(s.ttl)}
	return nil
}

func (s *MemoryIdempotencyStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	e, ok := s.values[k]
	if !ok {
		return "", false, nil
	}
	if s.nowFunc().After(e.expires) {
		delete(s.values, k)
		delete(s.locks, k)
		return "", false, nil
	}
	return e.value, true, nil
}

var _ usecase.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
