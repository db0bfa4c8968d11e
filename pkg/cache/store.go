package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value backend with per-key expiry.
type Store interface {
	// Name identifies the store in metrics and logs ("memory", "redis").
	Name() string

	// Get returns the stored bytes or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
