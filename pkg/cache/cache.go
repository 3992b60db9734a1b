// Package cache stores rendered merge results so that the HTTP server can
// answer repeated requests without re-running the pipeline.
//
// Entries are opaque byte slices addressed by string keys. [ResultKey]
// derives a key from a request body and the options that shape the output,
// so two requests hit the same entry only when they would produce the same
// bytes.
//
// Two backends are provided: [FileCache] persists entries below a directory
// and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with optional expiry.
type Cache interface {
	// Get returns the entry for key. A miss is reported as ok == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key, if any.
	Delete(ctx context.Context, key string) error

	Close() error
}
