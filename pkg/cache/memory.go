package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// MemoryStore is an in-process Store. Values are copied on the way in and
// on the way out so no caller can mutate a stored snapshot.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Name implements Store.
func (s *MemoryStore) Name() string {
	return "memory"
}

// Get implements Store. Expired items are evicted lazily.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if !s.now().Before(item.expires) {
		s.mu.Lock()
		if current, ok := s.items[key]; ok && current.expires.Equal(item.expires) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return append([]byte(nil), item.data...), nil
}

// Set implements Store. A non-positive ttl stores nothing.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryItem{
		data:    append([]byte(nil), data...),
		expires: s.now().Add(ttl),
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len returns the number of stored items, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
