// Package twoq implements the 2Q eviction policy.
package twoq

import (
	"container/list"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"
)

// twoQ implements the 2Q eviction policy.
//
// Resident queues:
//   - A1in (younger queue): admits first-time entries
//   - Am   (mature queue): entries hit at least once, or re-admitted from ghosts
//
// Ghost A1out: keys only (no values), tracks recently removed A1in keys to give
// them a second chance (bypass A1in on re-admission).
//
// All lists keep MRU at Front() and LRU at Back().
// Concurrency: all methods are called under the cache lock.
type twoQ struct {
	capIn    int
	capGhost int

	inList *list.List
	inIdx  map[string]*list.Element // element.Value is policy.Node

	amList *list.List
	amIdx  map[string]*list.Element // element.Value is policy.Node

	ghostList *list.List
	ghostIdx  map[string]*list.Element // element.Value is the key
}

// New constructs a 2Q policy factory.
// Common choices: capIn ≈ 25% of capacity; capGhost ≈ 50–100% of capacity.
func New(capIn, capGhost int) policy.Policy {
	if capIn < 1 {
		capIn = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return twoQPolicy{capIn: capIn, capGhost: capGhost}
}

type twoQPolicy struct {
	capIn    int
	capGhost int
}

func (p twoQPolicy) New(policy.Hooks) policy.Evictor {
	return &twoQ{
		capIn:     p.capIn,
		capGhost:  p.capGhost,
		inList:    list.New(),
		inIdx:     make(map[string]*list.Element),
		amList:    list.New(),
		amIdx:     make(map[string]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[string]*list.Element),
	}
}

// OnAdd admission rules:
//   - If the key is in ghosts (A1out), bypass A1in and admit directly to Am.
//     The ghost entry is dropped.
//   - Otherwise admit into A1in.
func (q *twoQ) OnAdd(n policy.Node) {
	k := n.Key()
	if ge, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		q.amIdx[k] = q.amList.PushFront(n)
		return
	}
	q.inIdx[k] = q.inList.PushFront(n)
}

// OnGet: an A1in node is promoted to Am; an Am node moves to Am's MRU.
func (q *twoQ) OnGet(n policy.Node) {
	k := n.Key()
	if el, ok := q.inIdx[k]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, k)
		q.amIdx[k] = q.amList.PushFront(n)
		return
	}
	if el, ok := q.amIdx[k]; ok {
		q.amList.MoveToFront(el)
	}
}

// OnUpdate follows OnGet semantics (updates count as recent use).
func (q *twoQ) OnUpdate(n policy.Node) { q.OnGet(n) }

// OnRemove:
//   - If the node was in A1in, its key goes to ghosts, respecting capGhost.
//   - Removals from Am do NOT populate ghosts.
func (q *twoQ) OnRemove(n policy.Node) {
	k := n.Key()
	if el, ok := q.amIdx[k]; ok {
		q.amList.Remove(el)
		delete(q.amIdx, k)
		return
	}
	el, ok := q.inIdx[k]
	if !ok {
		return
	}
	q.inList.Remove(el)
	delete(q.inIdx, k)

	if old := q.ghostIdx[k]; old != nil {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)

	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		if tail == nil {
			break
		}
		delete(q.ghostIdx, tail.Value.(string))
		q.ghostList.Remove(tail)
	}
}

// Victim picks A1in's LRU while A1in is over capIn (or Am is empty),
// otherwise Am's LRU.
func (q *twoQ) Victim() policy.Node {
	if q.inList.Len() > q.capIn || q.amList.Len() == 0 {
		if el := q.inList.Back(); el != nil {
			return el.Value.(policy.Node)
		}
	}
	if el := q.amList.Back(); el != nil {
		return el.Value.(policy.Node)
	}
	return nil
}
