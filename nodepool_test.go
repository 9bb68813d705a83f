// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticNodePoolRoundRobin(t *testing.T) {
	now := time.Now()
	pool := NewStaticNodePool([]string{"http://a/", "http://b/", "http://c/"}, now)

	audit := NewAuditTrail()
	view1 := pool.CreateView(audit, now)
	require.Len(t, view1, 3)
	assert.Equal(t, "http://a/", view1[0].BaseURL)

	view2 := pool.CreateView(audit, now)
	assert.Equal(t, "http://b/", view2[0].BaseURL)
	assert.Equal(t, 0, audit.Len())
}

func TestStaticNodePoolResurrectsExpiredNode(t *testing.T) {
	now := time.Now()
	pool := NewStaticNodePool([]string{"http://a/", "http://b/"}, now)

	nodes := pool.Nodes()
	pool.MarkDead(nodes[0], NewDeadNodePolicy(time.Second, time.Minute), now)

	later := now.Add(2 * time.Second)
	audit := NewAuditTrail()
	view := pool.CreateView(audit, later)

	require.Len(t, view, 2)
	assert.Equal(t, []EventKind{EventResurrection}, audit.Kinds())
}

func TestStaticNodePoolAllNodesDeadForcesResurrection(t *testing.T) {
	now := time.Now()
	pool := NewStaticNodePool([]string{"http://a/"}, now)

	nodes := pool.Nodes()
	policy := NewDeadNodePolicy(time.Minute, time.Hour)
	pool.MarkDead(nodes[0], policy, now)

	audit := NewAuditTrail()
	view := pool.CreateView(audit, now) // still within quarantine window

	require.Len(t, view, 1)
	assert.Equal(t, []EventKind{EventAllNodesDead, EventResurrection}, audit.Kinds())
	assert.True(t, view[0].IsResurrected)
}

func TestStaticNodePoolReseedFails(t *testing.T) {
	pool := NewStaticNodePool([]string{"http://a/"}, time.Now())
	err := pool.Reseed([]*Node{NewNode("http://b/")}, time.Now())
	assert.Error(t, err)
	assert.False(t, pool.SupportsReseeding())
}

func TestSingleNodePoolExhaustsWithoutFailover(t *testing.T) {
	now := time.Now()
	pool := NewSingleNodePool("http://only/", now)
	assert.False(t, pool.SupportsPinging())
	assert.False(t, pool.SupportsReseeding())

	audit := NewAuditTrail()
	view := pool.CreateView(audit, now)
	require.Len(t, view, 1)
	assert.Equal(t, 0, audit.Len())
}

func TestStickyNodePoolPrefersFirstAlive(t *testing.T) {
	now := time.Now()
	pool := NewStickyNodePool([]string{"http://a/", "http://b/"}, now)

	nodes := pool.Nodes()
	pool.MarkDead(nodes[0], NewDeadNodePolicy(time.Minute, time.Hour), now)

	audit := NewAuditTrail()
	view := pool.CreateView(audit, now)
	require.Len(t, view, 1)
	assert.Equal(t, "http://b/", view[0].BaseURL)
}

func TestSniffingNodePoolReseedDedupesPreservingOrder(t *testing.T) {
	pool := NewSniffingNodePool([]string{"http://a/"}, time.Now())
	assert.True(t, pool.SupportsReseeding())

	err := pool.Reseed([]*Node{
		NewNode("http://b/"),
		NewNode("http://b/"),
		NewNode("http://c/"),
	}, time.Now())
	require.NoError(t, err)

	nodes := pool.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "http://b/", nodes[0].BaseURL)
	assert.Equal(t, "http://c/", nodes[1].BaseURL)
}
