// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "go.opentelemetry.io/otel/attribute"

// ProductRegistration supplies the per-product hooks the Request
// Pipeline calls at fixed points (§4.6). The pipeline never inspects
// payloads directly: reading a body (a sniff response, a server error
// reason) always goes through one of these hooks.
type ProductRegistration interface {
	// DefaultMimeTypes returns the MIME types sent in the Accept header
	// when [Config.AcceptMimeTypes] is empty.
	DefaultMimeTypes() []string

	// DefaultHeaders returns headers merged into every outgoing request
	// before per-call headers are applied.
	DefaultHeaders() map[string]string

	// SniffPath returns the path the sniff subroutine requests.
	SniffPath() string

	// ParseSniffResponse parses a sniff response body into a node list,
	// using forceTLS to pick the scheme for parsed addresses.
	ParseSniffResponse(body []byte, forceTLS bool) ([]*Node, error)

	// PingPath returns the path the ping subroutine requests.
	PingPath() string

	// HTTPStatusCodeClassifier classifies a response for the given
	// method and status code into success, known-error, or retriable.
	HTTPStatusCodeClassifier(method string, statusCode int) StatusClass

	// TryGetServerErrorReason extracts a human-readable error reason
	// from a non-success response body, or "" if none is found.
	TryGetServerErrorReason(statusCode int, body []byte) string

	// NodePredicate reports whether a node is eligible to receive a
	// sniff request (e.g. master-eligible nodes only).
	NodePredicate(node *Node) bool

	// DecorateResponse runs after a successful call, before the typed
	// [Response] is handed back to the caller (e.g. adding
	// product-specific warnings to [ApiCallDetails]).
	DecorateResponse(details *ApiCallDetails)

	// OTelAttributes returns product-specific span attributes for the
	// current call (e.g. cluster name), or nil when none apply.
	OTelAttributes() []attribute.KeyValue
}

// StatusClass is the outcome [ProductRegistration.HTTPStatusCodeClassifier]
// assigns to one HTTP status code.
type StatusClass int

// Recognized [StatusClass] values.
const (
	// StatusSuccess marks the call successful.
	StatusSuccess StatusClass = iota

	// StatusKnownError marks a client-side error that should not be
	// retried, but still carries a response body back to the caller.
	StatusKnownError

	// StatusRetriable marks a server-side error the pipeline should
	// fail over on.
	StatusRetriable
)
