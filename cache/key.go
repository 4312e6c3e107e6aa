package cache

import "strings"

// Key builds a namespaced cache key: "namespace:part1:part2:...".
// With no parts the result is "namespace:", so it still matches prefix
// invalidation of the namespace.
func Key(namespace string, parts ...string) string {
	var b strings.Builder
	n := len(namespace) + 1
	for _, p := range parts {
		n += len(p) + 1
	}
	b.Grow(n)

	b.WriteString(namespace)
	b.WriteByte(':')
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}
	return b.String()
}
