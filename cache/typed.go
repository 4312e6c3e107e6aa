package cache

import (
	"context"
	"reflect"
	"time"
)

// GetAs reads key from a heterogeneous cache and asserts the stored value
// to T. A value of another type is reported as absent, but the read still
// counts as a hit in Metrics since the entry was resident and live.
func GetAs[T any](c Cache[any], key string) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Fetch is the typed cache-aside helper for a heterogeneous cache.
// It behaves like GetOrFetchWithTTL. If the stored value has another type
// (two callers disagree on a key's payload), fn is called and its result
// replaces the stored value.
func Fetch[T any](ctx context.Context, c Cache[any], key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.GetOrFetchWithTTL(ctx, key, ttl, func(ctx context.Context) (any, error) {
		t, err := fn(ctx)
		return t, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	if v == nil && reflect.TypeOf((*T)(nil)).Elem().Kind() == reflect.Interface {
		// a nil payload is a valid value of an interface T
		var zero T
		return zero, nil
	}

	t, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.SetWithTTL(key, t, ttl)
	return t, nil
}
