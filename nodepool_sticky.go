// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "time"

// StickyNodePool is a [NodePool] that always prefers the first alive
// node in insertion order, ignoring the round-robin cursor entirely. It
// never reseeds.
type StickyNodePool struct {
	*basePool
}

var _ NodePool = &StickyNodePool{}

// NewStickyNodePool returns a [*StickyNodePool] seeded from baseURLs.
func NewStickyNodePool(baseURLs []string, now time.Time) *StickyNodePool {
	nodes := make([]*Node, len(baseURLs))
	for i, u := range baseURLs {
		nodes[i] = NewNode(u)
	}
	return &StickyNodePool{basePool: newBasePool(nodes, false, true, now)}
}

// CreateView implements [NodePool]: walks nodes from index 0, skipping
// dead ones unless their quarantine has expired, so the first listed
// live node is always preferred over the cursor-based round robin.
func (p *StickyNodePool) CreateView(audit *AuditTrail, now time.Time) []*Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.nodes)
	if n == 0 {
		return nil
	}

	view := make([]*Node, 0, n)
	foundAlive := false
	for i := 0; i < n; i++ {
		node := p.nodes[i]
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
		last := p.nodes[0]
		audit.Append(EventAllNodesDead, nil, now, now, nil)
		last.IsResurrected = true
		audit.Append(EventResurrection, last.Clone(), now, now, nil)
		view = append(view, last.Clone())
	}

	return view
}

// Reseed implements [NodePool]. Always fails: a sticky pool never
// reseeds.
func (p *StickyNodePool) Reseed(nodes []*Node, now time.Time) error {
	return &PipelineMisconfigurationError{Reason: "reseed requested on a sticky pool"}
}
