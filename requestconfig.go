// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"net/http"
	"time"
)

// RequestConfig holds immutable per-call overrides merged with transport
// defaults into a [BoundConfig]. Build one with
// [NewRequestConfigBuilder].
type RequestConfig struct {
	// RequestTimeout overrides [Config.RequestTimeout] for this call. Zero
	// means "use the transport default".
	RequestTimeout time.Duration

	// MaxRetries overrides [Config.MaxRetries] for this call. A negative
	// value means "use the transport default".
	MaxRetries int

	// AllowedStatusCodes extends the default success set (200-299) for
	// this call.
	AllowedStatusCodes []int

	// HTTPCompression overrides [Config.HTTPCompression] for this call.
	HTTPCompression *bool

	// ContentType overrides the request Content-Type header.
	ContentType string

	// DisableDirectStreaming overrides [Config.DisableDirectStreaming]
	// for this call.
	DisableDirectStreaming *bool

	// Authentication overrides [Config.Authentication] for this call.
	Authentication func(req *RawRequest)

	// Headers are merged into the request, overriding any
	// transport-level default with the same key.
	Headers http.Header

	// Pipelined, when true, disables sniff-on-startup and
	// sniff-on-stale for this call only.
	Pipelined bool

	// DisablePings overrides [Config.DisablePings] for this call.
	DisablePings *bool
}

// RequestConfigBuilder incrementally builds an immutable [RequestConfig].
type RequestConfigBuilder struct {
	cfg RequestConfig
}

// NewRequestConfigBuilder returns a builder seeded with zero-value
// overrides (i.e. "defer to the transport default" for every field).
func NewRequestConfigBuilder() *RequestConfigBuilder {
	return &RequestConfigBuilder{cfg: RequestConfig{MaxRetries: -1, Headers: http.Header{}}}
}

// WithRequestTimeout sets [RequestConfig.RequestTimeout].
func (b *RequestConfigBuilder) WithRequestTimeout(d time.Duration) *RequestConfigBuilder {
	b.cfg.RequestTimeout = d
	return b
}

// WithMaxRetries sets [RequestConfig.MaxRetries].
func (b *RequestConfigBuilder) WithMaxRetries(n int) *RequestConfigBuilder {
	b.cfg.MaxRetries = n
	return b
}

// WithAllowedStatusCodes sets [RequestConfig.AllowedStatusCodes].
func (b *RequestConfigBuilder) WithAllowedStatusCodes(codes ...int) *RequestConfigBuilder {
	b.cfg.AllowedStatusCodes = append([]int(nil), codes...)
	return b
}

// WithHTTPCompression sets [RequestConfig.HTTPCompression].
func (b *RequestConfigBuilder) WithHTTPCompression(enabled bool) *RequestConfigBuilder {
	b.cfg.HTTPCompression = &enabled
	return b
}

// WithContentType sets [RequestConfig.ContentType].
func (b *RequestConfigBuilder) WithContentType(contentType string) *RequestConfigBuilder {
	b.cfg.ContentType = contentType
	return b
}

// WithDisableDirectStreaming sets [RequestConfig.DisableDirectStreaming].
func (b *RequestConfigBuilder) WithDisableDirectStreaming(disabled bool) *RequestConfigBuilder {
	b.cfg.DisableDirectStreaming = &disabled
	return b
}

// WithAuthentication sets [RequestConfig.Authentication].
func (b *RequestConfigBuilder) WithAuthentication(fn func(req *RawRequest)) *RequestConfigBuilder {
	b.cfg.Authentication = fn
	return b
}

// WithHeader adds a header to [RequestConfig.Headers].
func (b *RequestConfigBuilder) WithHeader(key, value string) *RequestConfigBuilder {
	b.cfg.Headers.Add(key, value)
	return b
}

// WithPipelined sets [RequestConfig.Pipelined].
func (b *RequestConfigBuilder) WithPipelined(pipelined bool) *RequestConfigBuilder {
	b.cfg.Pipelined = pipelined
	return b
}

// WithDisablePings sets [RequestConfig.DisablePings].
func (b *RequestConfigBuilder) WithDisablePings(disabled bool) *RequestConfigBuilder {
	b.cfg.DisablePings = &disabled
	return b
}

// Build returns the immutable [RequestConfig].
func (b *RequestConfigBuilder) Build() RequestConfig {
	return b.cfg
}
