package apicache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/cache"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/ttl"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64      { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t += int64(d) }

type article struct {
	PMID  string
	Title string
}

func newClient(t *testing.T) (*Client, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: int64(time.Hour)}
	c, err := cache.New[any](cache.Options[any]{MaxEntries: 100, Clock: clk})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return New(c, ttl.Defaults(), nil), clk
}

func TestDo_CachesPerEndpointTTL(t *testing.T) {
	t.Parallel()
	cl, clk := newClient(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (article, error) {
		calls++
		return article{PMID: "123", Title: "Aspirin"}, nil
	}

	a, err := Do(ctx, cl, PubMedArticle, fetch, "123")
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", a.Title)

	_, err = Do(ctx, cl, PubMedArticle, fetch, "123")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// still fresh just before 24h, gone at 24h
	clk.Advance(24*time.Hour - time.Nanosecond)
	_, _ = Do(ctx, cl, PubMedArticle, fetch, "123")
	assert.Equal(t, 1, calls)
	clk.Advance(time.Nanosecond)
	_, _ = Do(ctx, cl, PubMedArticle, fetch, "123")
	assert.Equal(t, 2, calls)
}

func TestDo_SearchExpiresSooner(t *testing.T) {
	t.Parallel()
	cl, clk := newClient(t)
	ctx := context.Background()

	calls := 0
	search := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"1", "2"}, nil
	}
	_, err := Do(ctx, cl, PubMedSearch, search, "aspirin", `{"page":1}`)
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	_, err = Do(ctx, cl, PubMedSearch, search, "aspirin", `{"page":1}`)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ErrorNotCached(t *testing.T) {
	t.Parallel()
	cl, _ := newClient(t)
	ctx := context.Background()

	boom := errors.New("upstream 503")
	_, err := Do(ctx, cl, OpenFDADrugs, func(ctx context.Context) ([]string, error) {
		return nil, boom
	}, "ibuprofen", "10")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cl.Metrics().TotalEntries)
}

func TestLookup_FoldsCase(t *testing.T) {
	t.Parallel()
	cl, _ := newClient(t)

	codes := []string{"J45 Asma", "J45.0 Asma predominantemente alérgica", "I10 Hipertensão"}
	calls := 0
	search := func(q string) func() []string {
		return func() []string {
			calls++
			var out []string
			for _, c := range codes {
				if strings.Contains(strings.ToLower(c), strings.ToLower(q)) {
					out = append(out, c)
				}
			}
			return out
		}
	}

	got := Lookup(cl, CID10, search("ASMA"), "ASMA")
	assert.Len(t, got, 2)
	got = Lookup(cl, CID10, search("asma"), "asma")
	assert.Len(t, got, 2)
	assert.Equal(t, 1, calls)

	_, ok := cache.GetAs[[]string](cl.c, "cid10:asma")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	t.Parallel()
	cl, _ := newClient(t)
	ctx := context.Background()

	ok := func(ctx context.Context) (string, error) { return "x", nil }
	for _, pmid := range []string{"1", "2", "3"} {
		_, err := Do(ctx, cl, PubMedArticle, ok, pmid)
		require.NoError(t, err)
	}
	_, err := Do(ctx, cl, OpenFDADrugs, ok, "q", "10")
	require.NoError(t, err)

	assert.Equal(t, 3, cl.Clear("pubmed:"))
	assert.Equal(t, 1, cl.Metrics().TotalEntries)

	assert.Equal(t, 0, cl.Clear(""))
	assert.Equal(t, 0, cl.Metrics().TotalEntries)
}

func TestEndpointKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "openfda:adverse:aspirin:10", OpenFDAAdverse.Key("aspirin", "10"))
	assert.Equal(t, "cid10:j45", CID10.Key("J45"))
	assert.Equal(t, "pubmed:related:", PubMedRelated.Key())
}
