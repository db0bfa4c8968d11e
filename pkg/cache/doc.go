// Package cache provides a transparent GraphQL response cache keyed by
// query identity.
//
// A query's identity is its operation name, a SHA-256 digest of the query
// document and the canonical JSON encoding of its variables. Two stores
// implement the same Store interface:
//
//   - MemoryStore keeps immutable snapshots in-process (default)
//   - RedisStore shares responses between processes via Redis
//
// # Basic Usage
//
//	// In-memory store
//	manager := cache.NewManager(cache.NewMemoryStore())
//
//	// Or Redis
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(cache.NewRedisStore(redisClient))
//
//	key := cache.CacheKey{
//		Operation: "GetCharacters",
//		Query:     query,
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch from the endpoint
//	}
//
//	// Store a response for one minute
//	_ = manager.Set(ctx, key, cache.NewEntry(body, time.Minute))
//
// # Metrics
//
//   - graphql_cache_hits_total{store} - Cache hits by store
//   - graphql_cache_misses_total - Cache misses
//   - graphql_cache_errors_total{operation} - Cache operation errors
//
// Entries are never mutated after Set. Readers get their own copy of the
// payload bytes.
package cache
