package cache

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy/approx"
)

// Defaults applied by New for zero-valued Options fields.
const (
	DefaultMaxEntries      = 1000
	DefaultTTL             = 300 * time.Second
	DefaultCleanupInterval = 60 * time.Second
)

// ErrInvalidOptions is returned by New when an Options field is out of range.
var ErrInvalidOptions = errors.New("cache: invalid options")

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity: removed by the policy to make room for a new key.
	EvictCapacity EvictReason = iota
	// EvictTTL: expired, discovered by a read (lazy eviction on access).
	EvictTTL
	// EvictSweep: expired, removed by the periodic sweep.
	EvictSweep
)

// String returns a stable, lowercase name for the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictTTL:
		return "ttl"
	case EvictSweep:
		return "sweep"
	default:
		return "capacity"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Hooks are called under the cache lock; implementations must not call back
// into the cache.
type Metrics interface {
	Hit()
	Miss()
	Set()
	Evict(reason EvictReason)
	Size(entries int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. Zero values are safe;
// defaults are applied in New():
//   - MaxEntries == 0      => DefaultMaxEntries
//   - DefaultTTL == 0      => DefaultTTL (5m)
//   - CleanupInterval == 0 => DefaultCleanupInterval (1m)
//   - nil Policy           => approximate LRU
//   - nil Metrics          => NoopMetrics
//   - nil Logger           => zap.NewNop()
//
// Negative MaxEntries, DefaultTTL or CleanupInterval are rejected.
type Options[V any] struct {
	// MaxEntries is the resident entry limit.
	MaxEntries int

	// DefaultTTL applies to Set and GetOrFetch.
	DefaultTTL time.Duration

	// CleanupInterval is the period of the background expiry sweep.
	CleanupInterval time.Duration

	// Policy picks eviction victims; nil => approx.New().
	Policy policy.Policy

	// DisableCoalescing lets concurrent misses on the same key each call
	// their own producer (last write wins). By default they share one call.
	DisableCoalescing bool

	// Observability
	// OnEvict is called for capacity evictions and expirations under the
	// cache lock; keep callbacks lightweight. Explicit invalidation does not
	// trigger it.
	OnEvict func(key string, v V, reason EvictReason)
	Metrics Metrics
	Logger  *zap.Logger

	// Clock allows overriding time source (tests). Nil => time.Now().
	Clock Clock
}

// withDefaults validates opt and fills zero values.
func (opt Options[V]) withDefaults() (Options[V], error) {
	if opt.MaxEntries < 0 {
		return opt, fmt.Errorf("%w: MaxEntries must be positive, got %d", ErrInvalidOptions, opt.MaxEntries)
	}
	if opt.DefaultTTL < 0 {
		return opt, fmt.Errorf("%w: DefaultTTL must be positive, got %s", ErrInvalidOptions, opt.DefaultTTL)
	}
	if opt.CleanupInterval < 0 {
		return opt, fmt.Errorf("%w: CleanupInterval must be positive, got %s", ErrInvalidOptions, opt.CleanupInterval)
	}
	if opt.MaxEntries == 0 {
		opt.MaxEntries = DefaultMaxEntries
	}
	if opt.DefaultTTL == 0 {
		opt.DefaultTTL = DefaultTTL
	}
	if opt.CleanupInterval == 0 {
		opt.CleanupInterval = DefaultCleanupInterval
	}
	if opt.Policy == nil {
		opt.Policy = approx.New()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return opt, nil
}
