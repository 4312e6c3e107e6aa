package cache

import (
	"context"
	"time"
)

// Producer computes a value on a cache miss, typically by calling an
// upstream API. Its error is returned to the caller unchanged.
type Producer[V any] func(ctx context.Context) (V, error)

// Cache is an in-memory string-keyed cache with per-entry TTL, a bounded
// entry count and a pluggable eviction policy.
// All methods are safe for concurrent use by multiple goroutines.
type Cache[V any] interface {
	// Get returns the value for key and a boolean flag indicating presence.
	// An expired entry is removed and reported as a miss.
	Get(key string) (V, bool)

	// Set inserts or overwrites key→v using the cache's DefaultTTL.
	// Inserting a new key into a full cache evicts one entry first;
	// overwriting an existing key never evicts.
	Set(key string, v V)

	// SetWithTTL is Set with a per-key TTL.
	// A non-positive ttl stores an entry that is already stale.
	SetWithTTL(key string, v V, ttl time.Duration)

	// GetOrFetch returns the cached value for key, or calls fn on a miss and
	// stores its result with DefaultTTL. Errors from fn are not cached.
	GetOrFetch(ctx context.Context, key string, fn Producer[V]) (V, error)

	// GetOrFetchWithTTL is GetOrFetch with a per-key TTL.
	GetOrFetchWithTTL(ctx context.Context, key string, ttl time.Duration, fn Producer[V]) (V, error)

	// Invalidate deletes key and reports whether it was present.
	Invalidate(key string) bool

	// InvalidateByPrefix deletes every key starting with prefix and returns
	// how many were removed.
	InvalidateByPrefix(prefix string) int

	// Clear removes all entries. Cumulative counters are kept.
	Clear()

	// Len returns the number of resident entries, expired or not.
	Len() int

	// Metrics returns a point-in-time copy of the cache counters.
	Metrics() Snapshot

	// Sweep removes every expired entry now and returns how many were removed.
	Sweep() int

	// Close stops the background sweeper. The cache stays usable afterwards
	// but expired entries are only dropped lazily on Get.
	Close() error
}
