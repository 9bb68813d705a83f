// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Transport is the public entry point: it binds a [NodePool], an
// [Invoker], a [ProductRegistration], and a [Config] together and
// drives the Request Pipeline (§4) for every call.
//
// A Transport is safe for concurrent use by multiple goroutines; each
// call runs its own sequential pipeline (§4.6) against the shared pool.
type Transport struct {
	Pool         NodePool
	Invoker      Invoker
	Registration ProductRegistration
	Config       *Config

	bootstrap *bootstrapGate
}

// NewTransport wires pool, invoker, registration, and cfg into a ready
// [*Transport]. A nil cfg falls back to [NewConfig]; a nil registration
// falls back to [NewDefaultProductRegistration]; a nil invoker falls
// back to [NewDefaultInvoker] built from cfg.
func NewTransport(pool NodePool, invoker Invoker, registration ProductRegistration, cfg *Config) *Transport {
	if cfg == nil {
		cfg = NewConfig()
	}
	if registration == nil {
		registration = NewDefaultProductRegistration()
	}
	if invoker == nil {
		invoker = NewDefaultInvoker(cfg, DefaultSLogger())
	}
	return &Transport{
		Pool:         pool,
		Invoker:      invoker,
		Registration: registration,
		Config:       cfg,
		bootstrap:    newBootstrapGate(),
	}
}

// defaultRequestConfig is the zero-value-safe [RequestConfig] used by
// every convenience method: MaxRetries defaults to -1 ("defer to
// transport"), not 0, unlike a bare [RequestConfig]{} literal.
func defaultRequestConfig() RequestConfig {
	return NewRequestConfigBuilder().Build()
}

// Execute runs method against path with the given body and per-call
// rc, blocking until the pipeline reaches a final outcome. The raw
// response body is returned undecoded; use [ExecuteJSON] to unmarshal
// structured bodies.
func (t *Transport) Execute(ctx context.Context, method, path string, body []byte, rc RequestConfig) Response[[]byte] {
	var span trace.Span
	if t.Config.Tracer != nil {
		ctx, span = t.Config.Tracer.Start(ctx, "ctransport.call")
		span.SetAttributes(t.Registration.OTelAttributes()...)
	}

	details := t.runCall(ctx, method, path, body, rc)

	if span != nil {
		emitSpanEvents(span, details.Audit)
		span.SetStatus(spanStatusCode(details.Success), "")
		span.End()
	}

	if newBoundConfig(t.Config, rc).DisableDirectStreaming {
		details.RequestBody = body
	}
	for _, decorate := range t.Config.ResponseDecorators {
		decorate(details)
	}
	return Response[[]byte]{Body: details.ResponseBody, Details: details}
}

// spanStatusCode maps a call outcome to an OpenTelemetry status code.
func spanStatusCode(success bool) codes.Code {
	if success {
		return codes.Ok
	}
	return codes.Error
}

// ExecuteAsync is the suspending twin of [Transport.Execute]: it runs
// the pipeline on its own goroutine and returns a channel that receives
// exactly one [Response] once the call finishes.
func (t *Transport) ExecuteAsync(ctx context.Context, method, path string, body []byte, rc RequestConfig) <-chan Response[[]byte] {
	out := make(chan Response[[]byte], 1)
	go func() {
		out <- t.Execute(ctx, method, path, body, rc)
	}()
	return out
}

// Get issues a GET request.
func (t *Transport) Get(ctx context.Context, path string) Response[[]byte] {
	return t.Execute(ctx, http.MethodGet, path, nil, defaultRequestConfig())
}

// Post issues a POST request with body.
func (t *Transport) Post(ctx context.Context, path string, body []byte) Response[[]byte] {
	return t.Execute(ctx, http.MethodPost, path, body, defaultRequestConfig())
}

// Put issues a PUT request with body.
func (t *Transport) Put(ctx context.Context, path string, body []byte) Response[[]byte] {
	return t.Execute(ctx, http.MethodPut, path, body, defaultRequestConfig())
}

// Delete issues a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string) Response[[]byte] {
	return t.Execute(ctx, http.MethodDelete, path, nil, defaultRequestConfig())
}

// Head issues a HEAD request.
func (t *Transport) Head(ctx context.Context, path string) Response[[]byte] {
	return t.Execute(ctx, http.MethodHead, path, nil, defaultRequestConfig())
}

// ExecuteJSON runs method against path, marshaling requestBody (if
// non-nil) as the request payload and unmarshaling a successful
// response into T. Marshaling/unmarshaling failures surface as a
// failed [Response] carrying the error in [ApiCallDetails.OriginalException];
// the pipeline itself is never invoked if requestBody fails to marshal.
func ExecuteJSON[T any](ctx context.Context, t *Transport, method, path string, requestBody any, rc RequestConfig) Response[T] {
	var body []byte
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return Response[T]{Details: &ApiCallDetails{
				Method:            method,
				URL:               NewEndpoint(method, path, nil).URL(),
				OriginalException: err,
			}}
		}
		body = encoded
	}

	raw := t.Execute(ctx, method, path, body, rc)

	var decoded T
	if raw.Success() && len(raw.Details.ResponseBody) > 0 {
		if err := json.Unmarshal(raw.Details.ResponseBody, &decoded); err != nil {
			raw.Details.OriginalException = err
			raw.Details.Success = false
			return Response[T]{Body: decoded, Details: raw.Details}
		}
	}
	return Response[T]{Body: decoded, Details: raw.Details}
}
