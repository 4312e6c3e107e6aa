// Package lru implements the exact LRU eviction policy.
package lru

import (
	"container/list"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"
)

// lru is a classic "move-to-front" Least-Recently-Used policy.
// order holds MRU at Front() and LRU at Back().
type lru struct {
	order *list.List
	idx   map[string]*list.Element // element.Value is policy.Node
}

type lruPolicy struct{}

// New returns a Policy factory that constructs LRU evictors.
func New() policy.Policy { return lruPolicy{} }

// New implements policy.Policy. LRU keeps its own recency list and does not
// need the cache hooks.
func (lruPolicy) New(policy.Hooks) policy.Evictor {
	return &lru{
		order: list.New(),
		idx:   make(map[string]*list.Element),
	}
}

// OnAdd places the new entry at MRU.
func (p *lru) OnAdd(n policy.Node) {
	if el, ok := p.idx[n.Key()]; ok {
		el.Value = n
		p.order.MoveToFront(el)
		return
	}
	p.idx[n.Key()] = p.order.PushFront(n)
}

// OnGet promotes the entry to MRU.
func (p *lru) OnGet(n policy.Node) { p.touch(n) }

// OnUpdate promotes the entry to MRU (overwrites count as recent use).
func (p *lru) OnUpdate(n policy.Node) { p.touch(n) }

// OnRemove drops the entry from the recency list.
func (p *lru) OnRemove(n policy.Node) {
	if el, ok := p.idx[n.Key()]; ok {
		p.order.Remove(el)
		delete(p.idx, n.Key())
	}
}

// Victim returns the least recently used entry in O(1).
func (p *lru) Victim() policy.Node {
	if el := p.order.Back(); el != nil {
		return el.Value.(policy.Node)
	}
	return nil
}

func (p *lru) touch(n policy.Node) {
	if el, ok := p.idx[n.Key()]; ok {
		p.order.MoveToFront(el)
		return
	}
	p.idx[n.Key()] = p.order.PushFront(n)
}
