// Package cache provides content-addressed caching for layout results and
// rendered artifacts.
//
// Keys are derived from document content and layout geometry, so a cache
// entry is valid forever: any change to the inputs changes the key. Three
// backends are provided: a file cache for CLI usage, a Redis cache for
// the HTTP server, and a null cache that disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
