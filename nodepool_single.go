// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "time"

// SingleNodePool is a [NodePool] with exactly one node: no pinging, no
// reseeding, no retries beyond that single node.
type SingleNodePool struct {
	*basePool
}

var _ NodePool = &SingleNodePool{}

// NewSingleNodePool returns a [*SingleNodePool] rooted at baseURL.
func NewSingleNodePool(baseURL string, now time.Time) *SingleNodePool {
	return &SingleNodePool{basePool: newBasePool([]*Node{NewNode(baseURL)}, false, false, now)}
}

// CreateView implements [NodePool]. It always yields the single node: if
// its quarantine has expired it is resurrected normally; otherwise it is
// forced back into rotation as a last-ditch retry, per the shared
// round-robin algorithm applied to a pool of size one.
func (p *SingleNodePool) CreateView(audit *AuditTrail, now time.Time) []*Node {
	return p.roundRobinView(audit, now)
}

// Reseed implements [NodePool]. Always fails: a single-node pool never
// reseeds.
func (p *SingleNodePool) Reseed(nodes []*Node, now time.Time) error {
	return &PipelineMisconfigurationError{Reason: "reseed requested on a single-node pool"}
}
