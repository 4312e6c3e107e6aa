package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/cache"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64 { return f.t }

// Drives a real cache and checks what the adapter exported.
func TestAdapter_WithCache(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "medfocus", "apicache", prometheus.Labels{"cache": "test"})

	clk := &fakeClock{}
	c, err := cache.New[string](cache.Options[string]{MaxEntries: 2, Metrics: m, Clock: clk})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	c.Set("a", "1")
	clk.t += int64(time.Millisecond)
	c.Set("b", "2")
	c.Set("c", "3") // evicts a
	c.Get("b")      // hit
	c.Get("a")      // miss
	c.SetWithTTL("b", "x", 0)
	c.Get("b") // expired -> miss + ttl eviction

	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.misses))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.sets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evicts.WithLabelValues("capacity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evicts.WithLabelValues("ttl")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entries))

	snap := c.Metrics()
	assert.Equal(t, float64(snap.Hits), testutil.ToFloat64(m.hits))
	assert.Equal(t, float64(snap.Misses), testutil.ToFloat64(m.misses))
}

func TestAdapter_Registers(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "medfocus", "apicache", nil)
	a.Evict(cache.EvictSweep)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// A second adapter with identical names must not register twice.
	assert.Panics(t, func() { New(reg, "medfocus", "apicache", nil) })
}
