package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type article struct {
	PMID  string
	Title string
}

func TestGetAs(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	c.Set("pubmed:article:1", article{PMID: "1", Title: "Asthma"})
	c.Set("cid10:j45", []string{"J45"})

	a, ok := GetAs[article](c, "pubmed:article:1")
	require.True(t, ok)
	assert.Equal(t, "Asthma", a.Title)

	_, ok = GetAs[article](c, "cid10:j45")
	assert.False(t, ok, "wrong type must be reported as absent")

	_, ok = GetAs[article](c, "missing")
	assert.False(t, ok)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) (article, error) {
		calls++
		return article{PMID: "9", Title: "COPD"}, nil
	}

	a, err := Fetch(ctx, c, "pubmed:article:9", time.Hour, fn)
	require.NoError(t, err)
	assert.Equal(t, "COPD", a.Title)

	a, err = Fetch(ctx, c, "pubmed:article:9", time.Hour, fn)
	require.NoError(t, err)
	assert.Equal(t, "COPD", a.Title)
	assert.Equal(t, 1, calls)
}

// A stored value of another type is replaced by a fresh fetch.
func TestFetch_TypeMismatchRefetches(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	c.Set("k", 42)

	s, err := Fetch(context.Background(), c, "k", time.Hour, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", s)

	got, ok := GetAs[string](c, "k")
	require.True(t, ok)
	assert.Equal(t, "fresh", got)
}

func TestFetch_Error(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	errBoom := errors.New("boom")

	_, err := Fetch(context.Background(), c, "k", time.Hour, func(context.Context) (int, error) {
		return 0, errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, c.Len())
}

// A nil payload does not satisfy a concrete T, so it is replaced.
func TestFetch_NilPayloadRefetches(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	c.Set("k", nil)

	calls := 0
	a, err := Fetch(context.Background(), c, "k", time.Hour, func(context.Context) (article, error) {
		calls++
		return article{PMID: "7"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "7", a.PMID)
	assert.Equal(t, 1, calls)

	got, ok := GetAs[article](c, "k")
	require.True(t, ok)
	assert.Equal(t, "7", got.PMID)
}

// For an interface T a stored nil is a valid cached value.
func TestFetch_NilPayloadInterfaceType(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	c.Set("k", nil)

	v, err := Fetch(context.Background(), c, "k", time.Hour, func(context.Context) (any, error) {
		t.Error("producer must not run for a cached nil")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, v)
}

// A type mismatch is reported as absent but still counted as a hit.
func TestGetAs_TypeMismatchCountsHit(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options[any]{})
	c.Set("k", 42)

	_, ok := GetAs[string](c, "k")
	assert.False(t, ok)

	m := c.Metrics()
	assert.Equal(t, uint64(1), m.Hits)
	assert.Equal(t, uint64(0), m.Misses)
}
