package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services.
type Cache interface {
	// Get returns "" with a nil error when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero expiration keeps it forever.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
