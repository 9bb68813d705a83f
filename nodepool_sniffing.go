// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "time"

// SniffingNodePool is a [StaticNodePool] with reseeding enabled: the
// pipeline may periodically replace its node list with a freshly
// discovered topology (§4.1's sniff prelude).
type SniffingNodePool struct {
	*basePool

	// Scorer, when non-nil, reorders nodes on every [Reseed] (§4.2's
	// "optional scorer sort"). A nil Scorer preserves the order of the
	// list passed to Reseed.
	Scorer NodeScorer
}

var _ NodePool = &SniffingNodePool{}

// NewSniffingNodePool returns a [*SniffingNodePool] seeded from
// baseURLs, with no scorer configured.
func NewSniffingNodePool(baseURLs []string, now time.Time) *SniffingNodePool {
	nodes := make([]*Node, len(baseURLs))
	for i, u := range baseURLs {
		nodes[i] = NewNode(u)
	}
	return &SniffingNodePool{basePool: newBasePool(nodes, true, true, now)}
}

// CreateView implements [NodePool] via the shared round-robin algorithm.
func (p *SniffingNodePool) CreateView(audit *AuditTrail, now time.Time) []*Node {
	return p.roundRobinView(audit, now)
}

// Reseed implements [NodePool]: replaces the node list, deduplicated by
// URL and ordered by [SniffingNodePool.Scorer] when configured.
func (p *SniffingNodePool) Reseed(nodes []*Node, now time.Time) error {
	return p.reseed(nodes, p.Scorer, now)
}
