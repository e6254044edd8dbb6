package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Separator ends the resource segment of every cache key. Invalidating a
// resource drops all keys that start with the resource name and Separator.
const Separator = "|"

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("cache: store closed")

// Entry is a cached response body and the time it was fetched.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store holds query results shared by every request of the process.
type Store interface {
	// Get returns the entry under key, if present and not expired.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Put stores entry under key unless the resource was invalidated after
	// gen was read. It reports whether the entry was written.
	Put(ctx context.Context, resource, key string, gen uint64, entry Entry, ttl time.Duration) (bool, error)

	// Generation returns the invalidation counter of resource.
	Generation(ctx context.Context, resource string) (uint64, error)

	// Invalidate bumps the generation of resource and drops its entries.
	Invalidate(ctx context.Context, resource string) error

	Ping(ctx context.Context) error
	Close() error
}

// ResourceOf returns the resource segment of key.
func ResourceOf(key string) string {
	resource, _, _ := strings.Cut(key, Separator)
	return resource
}
