package approx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"
)

type testNode struct {
	k       string
	created int64
	hits    int64
}

func (n *testNode) Key() string      { return n.k }
func (n *testNode) CreatedAt() int64 { return n.created }
func (n *testNode) Hits() int64      { return n.hits }

// sliceHooks exposes a fixed resident set.
type sliceHooks []*testNode

func (h sliceHooks) Range(fn func(policy.Node) bool) {
	for _, n := range h {
		if !fn(n) {
			return
		}
	}
}
func (h sliceHooks) Len() int { return len(h) }

func ms(v int64) int64 { return v * int64(time.Millisecond) }

func TestApprox_EmptyHasNoVictim(t *testing.T) {
	t.Parallel()

	p := New().New(sliceHooks{})
	assert.Nil(t, p.Victim())
}

func TestApprox_Score(t *testing.T) {
	t.Parallel()

	n := &testNode{k: "a", created: ms(1_000) + 999, hits: 7}
	// Sub-millisecond precision is dropped; each hit weighs one millisecond.
	assert.Equal(t, int64(1_007), Score(n))
}

// The victim is the smallest createdAt+hits, not the oldest insertion.
func TestApprox_VictimBySmallestScore(t *testing.T) {
	t.Parallel()

	old := &testNode{k: "old", created: ms(100), hits: 50} // 150
	mid := &testNode{k: "mid", created: ms(120), hits: 0}  // 120
	young := &testNode{k: "young", created: ms(140)}       // 140

	p := New().New(sliceHooks{old, mid, young})
	require.Equal(t, mid, p.Victim())
}

// Equal scores break on the earlier insertion, then on the smaller key.
func TestApprox_TieBreak(t *testing.T) {
	t.Parallel()

	a := &testNode{k: "a", created: ms(10) + 5, hits: 0} // 10
	b := &testNode{k: "b", created: ms(9), hits: 1}      // 10, earlier
	p := New().New(sliceHooks{a, b})
	require.Equal(t, b, p.Victim())

	x := &testNode{k: "x", created: ms(10)}
	w := &testNode{k: "w", created: ms(10)}
	p = New().New(sliceHooks{x, w})
	require.Equal(t, w, p.Victim())
}

// Notifications do not change the outcome; the policy is stateless.
func TestApprox_NotificationsAreNoOps(t *testing.T) {
	t.Parallel()

	a := &testNode{k: "a", created: ms(1)}
	b := &testNode{k: "b", created: ms(2)}
	p := New().New(sliceHooks{a, b})

	p.OnAdd(a)
	p.OnGet(a)
	p.OnUpdate(a)
	p.OnRemove(b)
	require.Equal(t, a, p.Victim())
}
