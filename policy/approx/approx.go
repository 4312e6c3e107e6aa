// Package approx implements approximate-LRU eviction.
//
// Recency is estimated as createdAt (milliseconds) + hit count, with no
// per-read timestamp. An entry inserted later, or read more often, ranks as
// more recently used. The victim is found by a full scan, so this policy is
// meant for caches of hundreds to low thousands of entries.
package approx

import "github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"

type approx struct {
	h policy.Hooks
}

type approxPolicy struct{}

// New returns a Policy factory that constructs approximate-LRU evictors.
func New() policy.Policy { return approxPolicy{} }

// New implements policy.Policy.
func (approxPolicy) New(h policy.Hooks) policy.Evictor {
	return &approx{h: h}
}

// Score returns the recency proxy of n; smaller means older.
func Score(n policy.Node) int64 {
	return n.CreatedAt()/1e6 + n.Hits()
}

func (p *approx) OnAdd(policy.Node)    {}
func (p *approx) OnGet(policy.Node)    {}
func (p *approx) OnUpdate(policy.Node) {}
func (p *approx) OnRemove(policy.Node) {}

// Victim scans every resident node and returns the one with the smallest
// Score. Ties go to the earlier insertion, then to the smaller key, so the
// result does not depend on map iteration order.
func (p *approx) Victim() policy.Node {
	var (
		victim policy.Node
		best   int64
	)
	p.h.Range(func(n policy.Node) bool {
		s := Score(n)
		if victim == nil || s < best || (s == best && older(n, victim)) {
			victim, best = n, s
		}
		return true
	})
	return victim
}

func older(a, b policy.Node) bool {
	if a.CreatedAt() != b.CreatedAt() {
		return a.CreatedAt() < b.CreatedAt()
	}
	return a.Key() < b.Key()
}
