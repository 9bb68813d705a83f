// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"context"
	"net/http"
)

// RawRequest is the wire-level request an [Invoker] sends for one
// attempt against one node.
type RawRequest struct {
	// Method is the HTTP method.
	Method string

	// URL is the full request URL (see [Endpoint.URL]).
	URL string

	// Headers are the headers to send, already merged from
	// [BoundConfig.Headers] and product defaults.
	Headers http.Header

	// Body is the request payload, or nil.
	Body []byte
}

// RawResponse is the wire-level result of one [Invoker] attempt.
type RawResponse struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response headers.
	Headers http.Header

	// Body is the response payload. Populated whenever direct streaming
	// is disabled, or always for small bodies, at the invoker's
	// discretion; the pipeline copies it into [ApiCallDetails.ResponseBody]
	// for every success or known-error response.
	Body []byte
}

// Invoker is the abstract capability that turns a bound [Endpoint] and
// request body into an HTTP response. It is the only collaborator the
// Request Pipeline treats as a pure transport: invokers never retry,
// never interpret status codes, and never consult the [NodePool] —
// retry is strictly the pipeline's job (§4.5).
//
// An [Invoker] implementation MUST: honor the context deadline; surface
// cancellation promptly as a [context.Canceled]-wrapping error; and
// either return a [*RawResponse] or a non-nil error, never both.
type Invoker interface {
	// Invoke performs a single HTTP attempt against endpoint.
	Invoke(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error)
}

// InvokerFunc adapts a function to the [Invoker] interface.
type InvokerFunc func(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error)

var _ Invoker = InvokerFunc(nil)

// Invoke implements [Invoker].
func (f InvokerFunc) Invoke(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error) {
	return f(ctx, endpoint, bc, req)
}
