// Package apicache wraps upstream medical API calls with the shared response
// cache. Each Endpoint fixes a key namespace and a TTL category; callers pass
// the request parameters as key parts and a producer that performs the call.
package apicache

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/cache"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/ttl"
)

// Endpoint identifies one cached upstream operation.
type Endpoint struct {
	Namespace string
	Category  ttl.Category
	// Fold lower-cases key parts so lookups are case-insensitive.
	Fold bool
}

var (
	PubMedSearch   = Endpoint{Namespace: "pubmed:search", Category: ttl.PubMedSearch}
	PubMedArticle  = Endpoint{Namespace: "pubmed:article", Category: ttl.PubMedArticle}
	PubMedRelated  = Endpoint{Namespace: "pubmed:related", Category: ttl.PubMedSearch}
	OpenFDADrugs   = Endpoint{Namespace: "openfda:drugs", Category: ttl.OpenFDADrugs}
	OpenFDAAdverse = Endpoint{Namespace: "openfda:adverse", Category: ttl.OpenFDAInteractions}
	CID10          = Endpoint{Namespace: "cid10", Category: ttl.CID10Lookup, Fold: true}
)

// Client is a cache shared by all endpoints.
type Client struct {
	c     cache.Cache[any]
	table ttl.Table
	log   *zap.Logger
}

// New returns a Client over c. A nil log disables logging.
func New(c cache.Cache[any], table ttl.Table, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{c: c, table: table, log: log.With(zap.String("component", "apicache"))}
}

// Key returns the cache key ep uses for parts.
func (ep Endpoint) Key(parts ...string) string {
	if ep.Fold {
		folded := make([]string, len(parts))
		for i, p := range parts {
			folded[i] = strings.ToLower(p)
		}
		parts = folded
	}
	return cache.Key(ep.Namespace, parts...)
}

func (cl *Client) ttlFor(ep Endpoint) time.Duration { return cl.table.TTL(ep.Category) }

// Do returns the cached response for ep and parts, calling fn on a miss.
// Errors from fn are returned unchanged and nothing is stored.
func Do[T any](ctx context.Context, cl *Client, ep Endpoint, fn func(ctx context.Context) (T, error), parts ...string) (T, error) {
	key := ep.Key(parts...)
	v, err := cache.Fetch(ctx, cl.c, key, cl.ttlFor(ep), fn)
	if err != nil {
		cl.log.Debug("Upstream call failed", zap.String("key", key), zap.Error(err))
		return v, err
	}
	return v, nil
}

// Lookup is the synchronous form of Do for locally computed data.
func Lookup[T any](cl *Client, ep Endpoint, compute func() T, parts ...string) T {
	key := ep.Key(parts...)
	if v, ok := cache.GetAs[T](cl.c, key); ok {
		return v
	}
	v := compute()
	cl.c.SetWithTTL(key, v, cl.ttlFor(ep))
	return v
}

// Clear drops every entry under namespace and returns the count. An empty
// namespace clears the whole cache and returns 0.
func (cl *Client) Clear(namespace string) int {
	if namespace == "" {
		cl.c.Clear()
		cl.log.Info("API cache cleared")
		return 0
	}
	n := cl.c.InvalidateByPrefix(namespace)
	cl.log.Info("API cache namespace cleared", zap.String("namespace", namespace), zap.Int("count", n))
	return n
}

// Metrics returns the shared cache counters.
func (cl *Client) Metrics() cache.Snapshot { return cl.c.Metrics() }
