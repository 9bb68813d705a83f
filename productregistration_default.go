// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultProductRegistration implements [ProductRegistration] with the
// generic contract §3/§6 nail down: the sniff wire format, the
// 200-299-plus-HEAD-404 success rule, 502/503/504 as retriable, and a
// master-eligible node predicate that falls back to any node when none
// is tagged "master". It carries no product-specific behavior beyond
// that.
type DefaultProductRegistration struct {
	// ForceTLS selects the scheme used for nodes parsed from a sniff
	// response.
	ForceTLS bool

	// TreatHeadNotFoundAsSuccess implements the "HEAD 404 is success"
	// rule (§4.1, scenario 6 in §8). Defaults to true when constructed
	// via [NewDefaultProductRegistration].
	TreatHeadNotFoundAsSuccess bool

	// ExtraRetriableStatusCodes lets a deployment tag additional status
	// codes as retriable (e.g. 429 once its retry-after window is
	// understood by the caller, per §9's open question).
	ExtraRetriableStatusCodes map[int]bool

	// ClusterName, when non-empty, is attached to spans via
	// [DefaultProductRegistration.OTelAttributes].
	ClusterName string
}

var _ ProductRegistration = &DefaultProductRegistration{}

// NewDefaultProductRegistration returns a [*DefaultProductRegistration]
// with the HEAD-404-as-success rule enabled and no extra retriable
// codes.
func NewDefaultProductRegistration() *DefaultProductRegistration {
	return &DefaultProductRegistration{
		TreatHeadNotFoundAsSuccess: true,
		ExtraRetriableStatusCodes:  map[int]bool{},
	}
}

// DefaultMimeTypes implements [ProductRegistration].
func (r *DefaultProductRegistration) DefaultMimeTypes() []string {
	return append([]string(nil), DefaultAcceptMimeTypes...)
}

// DefaultHeaders implements [ProductRegistration].
func (r *DefaultProductRegistration) DefaultHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// SniffPath implements [ProductRegistration].
func (r *DefaultProductRegistration) SniffPath() string {
	return "/_nodes/http"
}

// ParseSniffResponse implements [ProductRegistration].
func (r *DefaultProductRegistration) ParseSniffResponse(body []byte, forceTLS bool) ([]*Node, error) {
	return ParseSniffResponse(body, forceTLS || r.ForceTLS)
}

// PingPath implements [ProductRegistration].
func (r *DefaultProductRegistration) PingPath() string {
	return "/"
}

// HTTPStatusCodeClassifier implements [ProductRegistration]: 200-299 is
// success (plus HEAD+404 when enabled); 502/503/504 and any
// [DefaultProductRegistration.ExtraRetriableStatusCodes] are retriable;
// everything else in [400,599) is a known error.
func (r *DefaultProductRegistration) HTTPStatusCodeClassifier(method string, statusCode int) StatusClass {
	if statusCode >= 200 && statusCode < 300 {
		return StatusSuccess
	}
	if r.TreatHeadNotFoundAsSuccess && method == http.MethodHead && statusCode == http.StatusNotFound {
		return StatusSuccess
	}
	switch statusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return StatusRetriable
	}
	if r.ExtraRetriableStatusCodes[statusCode] {
		return StatusRetriable
	}
	return StatusKnownError
}

// TryGetServerErrorReason implements [ProductRegistration] by looking
// for a top-level "error.reason" or "error" string field in a JSON
// error body; returns "" for anything else.
func (r *DefaultProductRegistration) TryGetServerErrorReason(statusCode int, body []byte) string {
	var parsed struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Error) == 0 {
		return ""
	}
	var reason string
	if err := json.Unmarshal(parsed.Error, &reason); err == nil {
		return reason
	}
	var object struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(parsed.Error, &object); err != nil {
		return ""
	}
	return object.Reason
}

// NodePredicate implements [ProductRegistration]: prefers nodes tagged
// "master". The fallback to any node when the pool has no
// master-eligible nodes at all is applied against the full node list,
// not a single node, by [FilterSniffCandidates].
func (r *DefaultProductRegistration) NodePredicate(node *Node) bool {
	return node.HasFeature("master")
}

// FilterSniffCandidates applies [ProductRegistration.NodePredicate] to
// nodes, falling back to the full list when the predicate rejects every
// node (§4.1's "falls back to any node" rule).
func FilterSniffCandidates(registration ProductRegistration, nodes []*Node) []*Node {
	filtered := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if registration.NodePredicate(n) {
			filtered = append(filtered, n)
		}
	}
	if len(filtered) == 0 {
		return nodes
	}
	return filtered
}

// DecorateResponse implements [ProductRegistration] as a no-op: the
// default registration adds no product-specific warnings.
func (r *DefaultProductRegistration) DecorateResponse(details *ApiCallDetails) {
}

// OTelAttributes implements [ProductRegistration].
func (r *DefaultProductRegistration) OTelAttributes() []attribute.KeyValue {
	if r.ClusterName == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String("ctransport.cluster_name", r.ClusterName)}
}
