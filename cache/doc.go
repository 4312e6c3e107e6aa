// Package cache provides an in-process, string-keyed response cache for
// upstream API calls, with per-entry TTL, a bounded entry count, pluggable
// eviction policies (approximate LRU by default), a periodic expiry sweep,
// cache-aside loading and running hit/miss/set/eviction counters.
//
// Design
//
//   - Storage: a single map[string]*entry guarded by one mutex. Every
//     operation is atomic with respect to the others. Producers passed to
//     GetOrFetch run outside the lock.
//
//   - Capacity: MaxEntries bounds the resident set. Inserting a new key into
//     a full cache evicts exactly one victim first, so the bound holds after
//     every call. Overwriting an existing key never evicts.
//
//   - Policies: the victim is chosen by a policy.Policy. The default,
//     approx, ranks entries by createdAt (ms) + hit count with an O(n) scan.
//     policy/lru (exact LRU, O(1)) and policy/twoq (2Q) are drop-in upgrades.
//
//   - TTL: every entry has a deadline (UnixNano). An entry is absent once
//     now >= deadline. Expiration is lazy on read and also enforced by a
//     background sweep every CleanupInterval, which bounds memory held by
//     keys that are written and never read again.
//
//   - GetOrFetch: cache-aside. On a miss the producer is called and a
//     successful result is stored. Concurrent misses for the same key share
//     one producer call (singleflight) unless DisableCoalescing is set.
//     Producer errors propagate unchanged and are never cached.
//
//   - Namespaces: logically related keys share a prefix built with Key
//     ("pubmed:search:..."). InvalidateByPrefix drops a whole namespace.
//     All namespaces share one map and one MaxEntries bound.
//
//   - Metrics: Metrics() returns cumulative counters and the hit rate.
//     Options.Metrics receives Hit/Miss/Set/Evict/Size signals; plug the
//     metrics/prom adapter to export them.
//
// Basic usage
//
//	c, err := cache.New[string](cache.Options[string]{MaxEntries: 2000})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	c.Set("a", "1")
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Invalidate("a")
//
// Cache-aside with a per-key TTL
//
//	key := cache.Key("pubmed:article", pmid)
//	article, err := c.GetOrFetchWithTTL(ctx, key, 24*time.Hour, func(ctx context.Context) (string, error) {
//	    return upstream.Article(ctx, pmid)
//	})
//
// Shared heterogeneous cache
//
//	shared, _ := cache.New[any](cache.Options[any]{})
//	drugs, err := cache.Fetch(ctx, shared, cache.Key("openfda:drugs", q), time.Hour, searchDrugs)
//
// Thread-safety
//
// All methods on Cache are safe for concurrent use. Close stops only the
// sweeper; the cache keeps serving reads and writes afterwards.
package cache
