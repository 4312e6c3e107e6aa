package cache

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"
)

// cache is a single-map in-memory KV store with a pluggable eviction policy.
// All methods are safe for concurrent use by multiple goroutines.
type cache[V any] struct {
	// ---- guarded by mu ----
	mu    sync.Mutex
	m     map[string]*entry[V]
	pol   policy.Evictor
	stats counters

	opt Options[V]
	log *zap.Logger

	// singleflight group for coalescing concurrent misses in GetOrFetch.
	sf singleflight.Group

	// sweeper lifecycle
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a cache with the provided Options and starts its
// background sweeper. See Options for the defaults applied to zero fields.
func New[V any](opt Options[V]) (Cache[V], error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &cache[V]{
		m:    make(map[string]*entry[V]),
		opt:  opt,
		log:  opt.Logger.With(zap.String("component", "cache")),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	c.pol = opt.Policy.New(hooks[V]{c: c})

	go c.sweeper(opt.CleanupInterval)

	c.log.Debug("Cache initialized",
		zap.Int("maxEntries", opt.MaxEntries),
		zap.Duration("defaultTTL", opt.DefaultTTL),
		zap.Duration("cleanupInterval", opt.CleanupInterval),
		zap.Bool("coalescing", !opt.DisableCoalescing))

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return c, nil
}

// ---- Cache[V] implementation ----

// Get returns the value for key and a presence flag.
// On hit, the entry's hit count grows and the policy is notified.
func (c *cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

// Set inserts or overwrites key→v with DefaultTTL.
func (c *cache[V]) Set(key string, v V) {
	c.SetWithTTL(key, v, c.opt.DefaultTTL)
}

// SetWithTTL inserts or overwrites key→v with a per-key TTL.
func (c *cache[V]) SetWithTTL(key string, v V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, v, ttl)
}

// GetOrFetch is GetOrFetchWithTTL with DefaultTTL.
func (c *cache[V]) GetOrFetch(ctx context.Context, key string, fn Producer[V]) (V, error) {
	return c.GetOrFetchWithTTL(ctx, key, c.opt.DefaultTTL, fn)
}

// GetOrFetchWithTTL returns the value for key; on miss it calls fn and
// stores the result. Unless DisableCoalescing is set, concurrent misses for
// the same key wait for a single fn call (singleflight).
func (c *cache[V]) GetOrFetchWithTTL(ctx context.Context, key string, ttl time.Duration, fn Producer[V]) (V, error) {
	// fast path
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	if c.opt.DisableCoalescing {
		return c.fetch(ctx, key, ttl, fn)
	}

	// The flight outlives any single caller; each caller stops waiting on
	// its own ctx in the select below.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (any, error) {
		// a flight that finished between our miss and joining may have stored it
		if v, ok := c.peek(key); ok {
			return v, nil
		}
		v, err := c.fetch(flightCtx, key, ttl, fn)
		return v, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Invalidate deletes key if present and returns true on success.
func (c *cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return false
	}
	c.removeLocked(e)
	c.opt.Metrics.Size(len(c.m))
	return true
}

// InvalidateByPrefix deletes every key that starts with prefix.
func (c *cache[V]) InvalidateByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.m {
		if strings.HasPrefix(k, prefix) {
			c.removeLocked(e)
			removed++
		}
	}
	c.opt.Metrics.Size(len(c.m))
	return removed
}

// Clear drops all entries and resets the policy state.
func (c *cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[string]*entry[V])
	c.pol = c.opt.Policy.New(hooks[V]{c: c})
	c.opt.Metrics.Size(0)
	c.log.Debug("Cleared all entries in the cache")
}

// Len returns the number of resident entries.
func (c *cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Metrics returns a copy of the counters.
func (c *cache[V]) Metrics() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.snapshot(len(c.m))
}

// Sweep removes all expired entries.
func (c *cache[V]) Sweep() int {
	c.mu.Lock()
	now := c.now()
	removed := 0
	for _, e := range c.m {
		if e.expired(now) {
			c.expireLocked(e, EvictSweep)
			removed++
		}
	}
	c.opt.Metrics.Size(len(c.m))
	c.mu.Unlock()

	if removed > 0 {
		c.log.Debug("Expired cache entries swept", zap.Int("count", removed))
	}
	return removed
}

// Close stops the sweeper and waits for it to exit. It is safe to call
// more than once; the cache keeps working afterwards.
func (c *cache[V]) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		c.log.Debug("Cache sweeper stopped")
	})
	return nil
}

// ---- helpers ----

func (c *cache[V]) sweeper(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// fetch calls fn and stores a successful result.
func (c *cache[V]) fetch(ctx context.Context, key string, ttl time.Duration, fn Producer[V]) (V, error) {
	v, err := fn(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.SetWithTTL(key, v, ttl)
	return v, nil
}

// peek reads a live value without touching counters, hit counts or the policy.
func (c *cache[V]) peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok && !e.expired(c.now()) {
		return e.data, true
	}
	var zero V
	return zero, false
}

func (c *cache[V]) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// deadline converts a relative TTL into an absolute UnixNano deadline,
// saturating instead of overflowing.
func deadline(now int64, ttl time.Duration) int64 {
	if ttl > 0 && now > math.MaxInt64-int64(ttl) {
		return math.MaxInt64
	}
	return now + int64(ttl)
}

// -------------------- internals (mu held) --------------------

func (c *cache[V]) getLocked(key string) (V, bool) {
	var zero V

	e, ok := c.m[key]
	if !ok {
		c.stats.misses++
		c.opt.Metrics.Miss()
		return zero, false
	}
	if e.expired(c.now()) {
		c.expireLocked(e, EvictTTL)
		c.stats.misses++
		c.opt.Metrics.Miss()
		c.opt.Metrics.Size(len(c.m))
		return zero, false
	}

	e.hitCount++
	c.pol.OnGet(e)
	c.stats.hits++
	c.opt.Metrics.Hit()
	return e.data, true
}

func (c *cache[V]) setLocked(key string, v V, ttl time.Duration) {
	now := c.now()

	if e, ok := c.m[key]; ok {
		// Overwrite in place: capacity is unchanged, so nothing is evicted.
		e.data = v
		e.createdAt = now
		e.expiresAt = deadline(now, ttl)
		e.hitCount = 0
		c.pol.OnUpdate(e)
	} else {
		if len(c.m) >= c.opt.MaxEntries {
			c.evictLocked()
		}
		e := &entry[V]{
			key:       key,
			data:      v,
			createdAt: now,
			expiresAt: deadline(now, ttl),
		}
		c.m[key] = e
		c.pol.OnAdd(e)
	}

	c.stats.sets++
	c.opt.Metrics.Set()
	c.opt.Metrics.Size(len(c.m))
}

// evictLocked removes one entry picked by the policy.
func (c *cache[V]) evictLocked() {
	var victim *entry[V]
	if n := c.pol.Victim(); n != nil {
		victim = c.m[n.Key()]
	}
	if victim == nil {
		// The policy lost track of the resident set; any entry keeps the bound.
		c.log.Warn("Eviction policy returned no resident victim, evicting an arbitrary entry")
		for _, e := range c.m {
			victim = e
			break
		}
	}
	if victim == nil {
		return
	}

	c.removeLocked(victim)
	c.stats.evictions++
	c.opt.Metrics.Evict(EvictCapacity)
	if cb := c.opt.OnEvict; cb != nil {
		cb(victim.key, victim.data, EvictCapacity)
	}
	c.log.Debug("Cache entry evicted", zap.String("key", victim.key))
}

func (c *cache[V]) expireLocked(e *entry[V], reason EvictReason) {
	c.removeLocked(e)
	c.stats.expirations++
	c.opt.Metrics.Evict(reason)
	if cb := c.opt.OnEvict; cb != nil {
		cb(e.key, e.data, reason)
	}
}

func (c *cache[V]) removeLocked(e *entry[V]) {
	delete(c.m, e.key)
	c.pol.OnRemove(e)
}

// -------------------- policy hooks --------------------

// hooks adapts the cache's map to policy.Hooks.
type hooks[V any] struct{ c *cache[V] }

func (h hooks[V]) Range(fn func(policy.Node) bool) {
	for _, e := range h.c.m {
		if !fn(e) {
			return
		}
	}
}

func (h hooks[V]) Len() int { return len(h.c.m) }
