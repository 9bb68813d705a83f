// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"sync"
	"time"
)

// NodePool is the ordered collection of [Node] instances a [Transport]
// draws its views from. Variants differ only in how [NodePool.CreateView]
// orders nodes and whether [NodePool.Reseed] is supported (§9):
// [NewSingleNodePool], [NewStaticNodePool], [NewSniffingNodePool],
// [NewStickyNodePool], [NewCloudNodePool].
type NodePool interface {
	// Nodes returns a defensive clone of every node currently known to
	// the pool, regardless of liveness.
	Nodes() []*Node

	// CreateView returns nodes in the order a single call should try
	// them, appending [EventResurrection] and [EventAllNodesDead] audit
	// events to audit as it resurrects or falls back. The returned
	// nodes are clones safe for the caller to inspect or mutate freely.
	CreateView(audit *AuditTrail, now time.Time) []*Node

	// Reseed atomically replaces the pool's node list, returning
	// [*PipelineMisconfigurationError] when [NodePool.SupportsReseeding]
	// is false.
	Reseed(nodes []*Node, now time.Time) error

	// MarkDead quarantines the named node (by URL identity) using
	// policy, a no-op if the node is not a member of this pool.
	MarkDead(node *Node, policy DeadNodePolicy, now time.Time)

	// MarkAlive resets the named node's liveness bookkeeping.
	MarkAlive(node *Node)

	// SupportsReseeding reports whether [NodePool.Reseed] is meaningful
	// for this variant.
	SupportsReseeding() bool

	// SupportsPinging reports whether the pipeline should consider
	// pinging a resurrected node from this pool before routing a real
	// call to it.
	SupportsPinging() bool

	// LastUpdate returns the time the node list was last replaced.
	LastUpdate() time.Time
}

// basePool implements the shared bookkeeping (locking, node storage,
// cursor, dead-node mutation) that every [NodePool] variant composes.
type basePool struct {
	mu                sync.RWMutex
	nodes             []*Node
	cursor            int
	lastUpdate        time.Time
	supportsReseeding bool
	supportsPinging   bool
}

func newBasePool(nodes []*Node, supportsReseeding, supportsPinging bool, now time.Time) *basePool {
	return &basePool{
		nodes:             nodes,
		cursor:            -1,
		lastUpdate:        now,
		supportsReseeding: supportsReseeding,
		supportsPinging:   supportsPinging,
	}
}

// Nodes implements [NodePool].
func (p *basePool) Nodes() []*Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Node, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.Clone()
	}
	return out
}

// SupportsReseeding implements [NodePool].
func (p *basePool) SupportsReseeding() bool { return p.supportsReseeding }

// SupportsPinging implements [NodePool].
func (p *basePool) SupportsPinging() bool { return p.supportsPinging }

// LastUpdate implements [NodePool].
func (p *basePool) LastUpdate() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastUpdate
}

// MarkDead implements [NodePool].
func (p *basePool) MarkDead(node *Node, policy DeadNodePolicy, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := p.find(node); n != nil {
		n.MarkDead(policy, now)
	}
}

// MarkAlive implements [NodePool].
func (p *basePool) MarkAlive(node *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := p.find(node); n != nil {
		n.MarkAlive()
	}
}

// find returns the pool-owned node matching target's identity. Callers
// must hold p.mu.
func (p *basePool) find(target *Node) *Node {
	for _, n := range p.nodes {
		if n.Equals(target) {
			return n
		}
	}
	return nil
}

// reseed replaces the node list, deduplicating by URL and optionally
// reordering via scorer, preserving input order otherwise. Callers must
// hold no lock; reseed acquires the writer lock itself.
func (p *basePool) reseed(nodes []*Node, scorer NodeScorer, now time.Time) error {
	if !p.supportsReseeding {
		return &PipelineMisconfigurationError{Reason: "reseed requested on a pool that does not support reseeding"}
	}
	deduped := dedupeNodesByURL(nodes)
	if scorer != nil {
		deduped = scorer.Order(deduped)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = deduped
	p.cursor = -1
	p.lastUpdate = now
	return nil
}

// dedupeNodesByURL drops later duplicates by [Node.BaseURL], preserving
// the order of first occurrence.
func dedupeNodesByURL(nodes []*Node) []*Node {
	seen := make(map[string]bool, len(nodes))
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.BaseURL] {
			continue
		}
		seen[n.BaseURL] = true
		out = append(out, n)
	}
	return out
}

// roundRobinView implements the round-robin, resurrection-aware
// traversal shared by [StaticNodePool] and [SniffingNodePool]: starts at
// cursor+1 mod N, wraps once, resurrects expired dead nodes, and falls
// back to the node at the pre-advance cursor if every node is dead.
func (p *basePool) roundRobinView(audit *AuditTrail, now time.Time) []*Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.nodes)
	if n == 0 {
		return nil
	}

	view := make([]*Node, 0, n)
	originalCursor := ((p.cursor % n) + n) % n
	start := (originalCursor + 1) % n
	p.cursor = start
	foundAlive := false

	for i := 0; i < n; i++ {
		node := p.nodes[(start+i)%n]
		if node.IsAlive {
			foundAlive = true
			view = append(view, node.Clone())
			continue
		}
		if !node.DeadUntil.After(now) {
			node.IsResurrected = true
			foundAlive = true
			audit.Append(EventResurrection, node.Clone(), now, now, nil)
			view = append(view, node.Clone())
		}
	}

	if !foundAlive {
		last := p.nodes[originalCursor]
		audit.Append(EventAllNodesDead, nil, now, now, nil)
		last.IsResurrected = true
		audit.Append(EventResurrection, last.Clone(), now, now, nil)
		view = append(view, last.Clone())
	}

	return view
}
