// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "strings"

// emptySentinelHost is the host used by [Empty] when no [Node] has been bound yet.
const emptySentinelHost = "http://empty-node/"

// Endpoint is the (method, path-and-query, node) triple a single HTTP
// attempt is bound to. Its derived [Endpoint.URL] is the full request URL.
//
// The zero value is not usable directly; use [Empty] or [NewEndpoint].
type Endpoint struct {
	// Method is the HTTP method (e.g. "GET").
	Method string

	// PathAndQuery is the request path, optionally including a query string.
	// It must not include a leading node base URL.
	PathAndQuery string

	// Node is the node this endpoint is bound to. May be nil for [Empty].
	Node *Node
}

// Empty is the sentinel [Endpoint] used before a node has been bound,
// e.g. while constructing the failure response of a call that never
// reached the node-selection stage (see [EventNoNodesAttempted]).
var Empty = Endpoint{Method: "", PathAndQuery: "", Node: nil}

// NewEndpoint returns an [Endpoint] bound to node for the given method and path.
func NewEndpoint(method, pathAndQuery string, node *Node) Endpoint {
	return Endpoint{Method: method, PathAndQuery: pathAndQuery, Node: node}
}

// URL returns the full request URL for this endpoint.
//
// When [Endpoint.Node] is nil, the sentinel host from [Empty] is used so
// that callers always get a well-formed (if meaningless) URL back.
func (e Endpoint) URL() string {
	base := emptySentinelHost
	if e.Node != nil {
		base = e.Node.BaseURL
	}
	return base + strings.TrimPrefix(e.PathAndQuery, "/")
}
