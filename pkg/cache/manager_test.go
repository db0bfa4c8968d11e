package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client for testing.
// Tests using it are skipped when no local Redis is reachable; the
// integration suite covers Redis through testcontainers-go.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

// storesUnderTest returns a fresh manager per available store.
func storesUnderTest(t *testing.T) map[string]func(t *testing.T) *Manager {
	t.Helper()
	return map[string]func(t *testing.T) *Manager{
		"memory": func(t *testing.T) *Manager {
			return NewManager(NewMemoryStore())
		},
		"redis": func(t *testing.T) *Manager {
			return NewManager(NewRedisStore(setupTestRedis(t)))
		},
	}
}

var testKey = CacheKey{
	Operation: "GetCharacters",
	Query:     "query GetCharacters { characters { results { id } } }",
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil store")
		}
	}()
	NewManager(nil)
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil)
}

func TestManager_StoreName(t *testing.T) {
	if got := NewManager(NewMemoryStore()).StoreName(); got != "memory" {
		t.Errorf("StoreName() = %q, want %q", got, "memory")
	}
}

func TestManager_SetAndGet(t *testing.T) {
	for name, newManager := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			manager := newManager(t)
			ctx := context.Background()

			entry := NewEntry([]byte(`{"data":{"characters":{"results":[]}}}`), 5*time.Minute)

			if err := manager.Set(ctx, testKey, entry); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			retrieved, err := manager.Get(ctx, testKey)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}

			if string(retrieved.Data) != string(entry.Data) {
				t.Errorf("Data mismatch: got %s, want %s", retrieved.Data, entry.Data)
			}
			if diff := retrieved.Expires.Sub(entry.Expires); diff < -time.Second || diff > time.Second {
				t.Errorf("Expires mismatch: got %v, want %v", retrieved.Expires, entry.Expires)
			}
		})
	}
}

func TestManager_Get_CacheMiss(t *testing.T) {
	for name, newManager := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			manager := newManager(t)

			_, err := manager.Get(context.Background(), CacheKey{Operation: "Nonexistent"})
			if !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Expected ErrCacheMiss, got %v", err)
			}
		})
	}
}

func TestManager_Get_ExpiredEntry(t *testing.T) {
	for name, newManager := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			manager := newManager(t)
			ctx := context.Background()

			entry := &CacheEntry{
				Data:    []byte(`{"data":{}}`),
				Expires: time.Now().Add(-1 * time.Hour),
			}

			// Set should not cache expired entries
			if err := manager.Set(ctx, testKey, entry); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			if _, err := manager.Get(ctx, testKey); !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Expected ErrCacheMiss for expired entry, got %v", err)
			}
		})
	}
}

func TestManager_Get_InvalidEntry(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store)
	ctx := context.Background()

	if err := store.Set(ctx, testKey.String(), []byte("not json"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := manager.Get(ctx, testKey); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	for name, newManager := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			manager := newManager(t)
			ctx := context.Background()

			if err := manager.Set(ctx, testKey, NewEntry([]byte(`{}`), 5*time.Minute)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			if _, err := manager.Get(ctx, testKey); err != nil {
				t.Fatalf("Get after Set failed: %v", err)
			}

			if err := manager.Delete(ctx, testKey); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}

			if _, err := manager.Get(ctx, testKey); !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
			}
		})
	}
}

func TestManager_UpdateTTL(t *testing.T) {
	for name, newManager := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			manager := newManager(t)
			ctx := context.Background()

			if err := manager.Set(ctx, testKey, NewEntry([]byte(`{}`), 5*time.Minute)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			newExpires := time.Now().Add(10 * time.Minute)
			if err := manager.UpdateTTL(ctx, testKey, newExpires); err != nil {
				t.Fatalf("UpdateTTL failed: %v", err)
			}

			retrieved, err := manager.Get(ctx, testKey)
			if err != nil {
				t.Fatalf("Get after UpdateTTL failed: %v", err)
			}

			diff := retrieved.Expires.Sub(newExpires)
			if diff < -1*time.Second || diff > 1*time.Second {
				t.Errorf("Expires time not updated correctly: got %v, want %v (diff: %v)",
					retrieved.Expires, newExpires, diff)
			}
		})
	}
}

func TestManager_Set_NilEntry(t *testing.T) {
	manager := NewManager(NewMemoryStore())

	if err := manager.Set(context.Background(), testKey, nil); err == nil {
		t.Error("Set with nil entry should return error")
	}
}
