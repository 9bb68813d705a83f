// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "time"

// StaticNodePool is a [NodePool] over a fixed list of nodes, with
// pinging enabled and reseeding disabled.
type StaticNodePool struct {
	*basePool
}

var _ NodePool = &StaticNodePool{}

// NewStaticNodePool returns a [*StaticNodePool] seeded from baseURLs.
func NewStaticNodePool(baseURLs []string, now time.Time) *StaticNodePool {
	nodes := make([]*Node, len(baseURLs))
	for i, u := range baseURLs {
		nodes[i] = NewNode(u)
	}
	return &StaticNodePool{basePool: newBasePool(nodes, false, true, now)}
}

// CreateView implements [NodePool] via the shared round-robin algorithm.
func (p *StaticNodePool) CreateView(audit *AuditTrail, now time.Time) []*Node {
	return p.roundRobinView(audit, now)
}

// Reseed implements [NodePool]. Always fails: a static pool's node list
// is fixed at construction.
func (p *StaticNodePool) Reseed(nodes []*Node, now time.Time) error {
	return &PipelineMisconfigurationError{Reason: "reseed requested on a static pool"}
}
