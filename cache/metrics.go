package cache

import "math"

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Set()              {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(entries int)  {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}

// Snapshot is a point-in-time view of the cache counters.
// Counters only grow for the lifetime of a cache; Clear does not reset them.
// A hit means a live entry was found; GetAs counts a hit even when the
// stored value has another type and it reports the key as absent.
type Snapshot struct {
	Hits   uint64
	Misses uint64
	Sets   uint64
	// Evictions counts capacity evictions only.
	Evictions uint64
	// Expirations counts entries dropped because their TTL passed,
	// whether found by a read or by the sweep.
	Expirations uint64

	// TotalEntries is the resident count at snapshot time.
	TotalEntries int
	// HitRate is round(Hits / (Hits+Misses) * 100), or 0 before any read.
	HitRate int
}

// counters are guarded by the cache lock.
type counters struct {
	hits, misses, sets, evictions, expirations uint64
}

func (c counters) snapshot(entries int) Snapshot {
	return Snapshot{
		Hits:         c.hits,
		Misses:       c.misses,
		Sets:         c.sets,
		Evictions:    c.evictions,
		Expirations:  c.expirations,
		TotalEntries: entries,
		HitRate:      hitRate(c.hits, c.misses),
	}
}

func hitRate(hits, misses uint64) int {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(hits) / float64(total) * 100))
}
