// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// NodeScorer reorders a deduplicated node list at [NodePool.Reseed] time
// (§4.2's "optional scorer sort"). A nil [NodeScorer] preserves the
// order of the list passed to Reseed.
type NodeScorer interface {
	// Order returns nodes in the scorer's preferred order. The input
	// must not be mutated; implementations return a new slice.
	Order(nodes []*Node) []*Node
}

// RendezvousScorer orders nodes by rendezvous (highest random weight)
// hashing keyed on the pool's identity, so that repeated reseeds of a
// largely-stable cluster keep each node's relative preference rank
// stable instead of thrashing the round-robin cursor's effective
// starting point whenever the sniff response reorders the same node
// set.
type RendezvousScorer struct {
	// Key identifies this pool for hashing purposes (e.g. the pool's
	// first-ever seed URL). Nodes are ranked by their rendezvous score
	// against this fixed key, not against each other's positions.
	Key string
}

var _ NodeScorer = RendezvousScorer{}

func rendezvousHash(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Order implements [NodeScorer].
func (s RendezvousScorer) Order(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	members := make([]string, len(nodes))
	byURL := make(map[string]*Node, len(nodes))
	for i, n := range nodes {
		members[i] = n.BaseURL
		byURL[n.BaseURL] = n
	}
	ring := rendezvous.New(members, rendezvousHash)

	// Rendezvous hashing picks a single winner per key; to get a total
	// order we repeatedly pick the winner among the remaining members.
	remaining := append([]string(nil), members...)
	out := make([]*Node, 0, len(nodes))
	for len(remaining) > 0 {
		winner := ring.Lookup(s.Key)
		out = append(out, byURL[winner])
		remaining = removeString(remaining, winner)
		if len(remaining) == 0 {
			break
		}
		ring = rendezvous.New(remaining, rendezvousHash)
	}
	return out
}

func removeString(s []string, target string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
