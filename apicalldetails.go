// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"fmt"
	"net/http"
	"strings"
)

// ApiCallDetails is the per-call record attached to every [Response],
// successful or not.
type ApiCallDetails struct {
	// Method is the HTTP method used for the attempt that produced this
	// record (the last attempt, on failover).
	Method string

	// URL is the full request URL of that attempt. For a call that ends
	// without a success or known-error response, URL is built on the
	// sentinel host of [Empty] instead.
	URL string

	// StatusCode is the HTTP status code of that attempt. It is 0 for a
	// call that ends without a success or known-error response, even when
	// earlier attempts received retriable status codes.
	StatusCode int

	// Success is true iff the call is considered successful: its status
	// is in [BoundConfig.AllowedStatusCodes], or
	// [ProductRegistration.HTTPStatusCodeClassifier] marks it a success.
	Success bool

	// Audit is the accumulated [AuditTrail] for the whole call, across
	// every attempted node.
	Audit *AuditTrail

	// RequestBody holds the request body bytes, captured only when
	// direct streaming is disabled.
	RequestBody []byte

	// ResponseBody holds the response body bytes of a success or
	// known-error response, whatever the direct-streaming setting. It is
	// empty when the call ends on a transport error, a timeout, a
	// cancellation, or exhausted retries.
	ResponseBody []byte

	// ResponseHeaders are the parsed headers of the last attempt's
	// response, if any.
	ResponseHeaders http.Header

	// MimeType is the response Content-Type, when present.
	MimeType string

	// OriginalException is the underlying error for a non-successful
	// call, if any.
	OriginalException error

	// SuccessOrKnownError is true iff Success, or StatusCode is in
	// [400,599) except 502/503/504.
	SuccessOrKnownError bool
}

// IsKnownError reports whether the status code is a recognized
// client-side error independent of success.
func (d *ApiCallDetails) IsKnownError() bool {
	if d.StatusCode < 400 || d.StatusCode >= 599 {
		return false
	}
	switch d.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return false
	default:
		return true
	}
}

// DebugInformation renders a multi-line, human-readable post-mortem of
// the call: method, URL, status, audit trail, and captured bodies when
// available. This is the canonical diagnostic artifact for a failed
// [Response].
func (d *ApiCallDetails) DebugInformation() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ctransport call: %s %s\n", d.Method, d.URL)
	fmt.Fprintf(&b, "status: %d, success: %v\n", d.StatusCode, d.Success)
	if d.OriginalException != nil {
		fmt.Fprintf(&b, "error: %v\n", d.OriginalException)
	}
	if d.Audit != nil {
		b.WriteString("audit trail:\n")
		for _, ev := range d.Audit.Events() {
			if ev.Node != nil {
				fmt.Fprintf(&b, "  - %s @ %s (%s)\n", ev.Kind, ev.Node.BaseURL, ev.End.Sub(ev.Start))
			} else {
				fmt.Fprintf(&b, "  - %s (%s)\n", ev.Kind, ev.End.Sub(ev.Start))
			}
			if ev.Err != nil {
				fmt.Fprintf(&b, "    err: %v\n", ev.Err)
			}
		}
	}
	if len(d.RequestBody) > 0 {
		fmt.Fprintf(&b, "request body:\n%s\n", d.RequestBody)
	}
	if len(d.ResponseBody) > 0 {
		fmt.Fprintf(&b, "response body:\n%s\n", d.ResponseBody)
	}
	return b.String()
}
