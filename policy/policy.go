// Package policy defines the contracts between the cache and its eviction
// strategies.
package policy

// Node is the read-only view of a resident entry that a policy may inspect.
type Node interface {
	Key() string
	// CreatedAt is the insertion time in UnixNano. Overwrites reset it.
	CreatedAt() int64
	// Hits is the number of successful reads since insertion.
	Hits() int64
}

// Hooks expose the cache's resident set to a policy.
//
// Concurrency: all hook calls happen under the cache lock.
type Hooks interface {
	// Range calls fn for every resident node until fn returns false.
	// Iteration order is unspecified.
	Range(fn func(Node) bool)
	// Len returns the number of resident nodes.
	Len() int
}

// Evictor is a policy instance bound to one cache.
// All methods are invoked under the cache lock.
//
// Semantics:
//   - OnAdd is called after a new key is stored.
//   - OnGet is called on every hit; OnUpdate when an existing key is overwritten.
//   - OnRemove is called for every removal (eviction, expiry, invalidation).
//   - Victim returns the entry to evict when the cache is full, or nil when
//     the policy has no candidate. The cache removes the victim and then calls
//     OnRemove for it.
type Evictor interface {
	OnAdd(Node)
	OnGet(Node)
	OnUpdate(Node)
	OnRemove(Node)
	Victim() Node
}

// Policy is a factory that creates evictors bound to a particular cache's
// hooks. A single Policy value may be shared by several caches.
type Policy interface {
	New(Hooks) Evictor
}
