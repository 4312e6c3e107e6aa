package cache

// entry is one stored item. It doubles as the policy.Node handed to the
// eviction policy; the cache owns it and mutates it only under its lock.
type entry[V any] struct {
	key  string
	data V

	// Insertion time and absolute expiration deadline, both UnixNano.
	// The entry is absent once now >= expiresAt.
	createdAt int64
	expiresAt int64

	// Successful reads since insertion.
	hitCount int64
}

// Key returns the entry key (part of policy.Node interface).
func (e *entry[V]) Key() string { return e.key }

// CreatedAt returns the insertion time in UnixNano (part of policy.Node interface).
func (e *entry[V]) CreatedAt() int64 { return e.createdAt }

// Hits returns the read count (part of policy.Node interface).
func (e *entry[V]) Hits() int64 { return e.hitCount }

func (e *entry[V]) expired(now int64) bool { return now >= e.expiresAt }
