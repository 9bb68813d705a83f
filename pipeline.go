// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"context"
	"net/http"
	"time"
)

// runCall executes the Request Pipeline state machine (§4.1) for one
// user call: pick live nodes, optionally sniff/ping, invoke, classify,
// retry on recoverable failure, and return the accumulated
// [*ApiCallDetails]. Both [Transport.Execute] and [Transport.ExecuteAsync]
// share this method, so they produce identical audit trails for
// identical scenarios.
func (t *Transport) runCall(ctx context.Context, method, path string, body []byte, rc RequestConfig) *ApiCallDetails {
	startTime := t.Config.TimeNow()
	audit := NewAuditTrail()

	requestTimeout := t.Config.RequestTimeout
	if rc.RequestTimeout > 0 {
		requestTimeout = rc.RequestTimeout
	}
	ctx, cancelBudget := context.WithTimeout(ctx, requestTimeout)
	defer cancelBudget()

	if t.elapsedSince(startTime) >= requestTimeout {
		audit.Append(EventMaxTimeoutReached, nil, startTime, t.Config.TimeNow(), nil)
		return t.failureDetails(method, path, audit, &TimeoutError{Elapsed: requestTimeout.String()})
	}

	if !rc.Pipelined {
		t.sniffPrelude(ctx, audit)
	}

	view := t.Pool.CreateView(audit, t.Config.TimeNow())
	if len(view) == 0 {
		audit.Append(EventNoNodesAttempted, nil, t.Config.TimeNow(), t.Config.TimeNow(), nil)
		return t.failureDetails(method, path, audit, &NoNodesError{})
	}

	retryLimit := t.retryLimit(rc)
	maxAttempts := retryLimit + 1
	if maxAttempts > len(view) {
		maxAttempts = len(view)
	}

	var (
		attempts int
		lastErr  error
	)

	for i := 0; i < maxAttempts; i++ {
		node := view[i]

		if t.elapsedSince(startTime) >= requestTimeout {
			audit.Append(EventMaxTimeoutReached, nil, startTime, t.Config.TimeNow(), nil)
			return t.failureDetails(method, path, audit, &TimeoutError{Elapsed: requestTimeout.String()})
		}
		if err := ctx.Err(); err != nil {
			audit.Append(EventCancellationRequested, node, t.Config.TimeNow(), t.Config.TimeNow(), err)
			return t.failureDetails(method, path, audit, &CancellationError{Err: err})
		}

		attempts++
		boundConfig := newBoundConfig(t.Config, rc)

		if node.IsResurrected && t.Pool.SupportsPinging() && !boundConfig.DisablePings {
			if !t.ping(ctx, node, boundConfig) {
				audit.Append(EventPingFailure, node.Clone(), t.Config.TimeNow(), t.Config.TimeNow(), nil)
				t.Pool.MarkDead(node, t.Config.DeadNodePolicy(), t.Config.TimeNow())
				t.Metrics.recordDeadNode()
				continue
			}
			audit.Append(EventPingSuccess, node.Clone(), t.Config.TimeNow(), t.Config.TimeNow(), nil)
			t.Pool.MarkAlive(node)
			node.IsResurrected = false
		}

		endpoint := NewEndpoint(method, path, node)
		raw := &RawRequest{
			Method:  method,
			URL:     endpoint.URL(),
			Headers: t.buildHeaders(boundConfig, rc),
			Body:    body,
		}

		reqStart := t.Config.TimeNow()
		resp, err := t.Invoker.Invoke(ctx, endpoint, boundConfig, raw)
		reqEnd := t.Config.TimeNow()

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				if t.elapsedSince(startTime) >= requestTimeout {
					audit.Append(EventMaxTimeoutReached, node.Clone(), reqStart, reqEnd, err)
					return t.failureDetails(method, path, audit, &TimeoutError{Elapsed: requestTimeout.String()})
				}
				audit.Append(EventCancellationRequested, node.Clone(), reqStart, reqEnd, err)
				return t.failureDetails(method, path, audit, &CancellationError{Err: ctxErr})
			}
			audit.Append(EventBadResponse, node.Clone(), reqStart, reqEnd, err)
			t.Pool.MarkDead(node, t.Config.DeadNodePolicy(), reqEnd)
			t.Metrics.recordDeadNode()
			lastErr = err
			continue
		}

		switch t.classify(boundConfig, method, resp.StatusCode) {
		case StatusSuccess:
			audit.Append(EventHealthyResponse, node.Clone(), reqStart, reqEnd, nil)
			t.Pool.MarkAlive(node)
			t.Metrics.recordRequest(true)
			details := t.successDetails(method, endpoint.URL(), resp, audit)
			t.Registration.DecorateResponse(details)
			return details

		case StatusKnownError:
			audit.Append(EventBadRequest, node.Clone(), reqStart, reqEnd, nil)
			lastErr = &UnexpectedStatusError{StatusCode: resp.StatusCode, Node: node}
			t.Metrics.recordRequest(false)
			return t.failureDetailsWithResponse(method, endpoint.URL(), resp, audit, lastErr)

		default: // StatusRetriable
			audit.Append(EventBadResponse, node.Clone(), reqStart, reqEnd, nil)
			t.Pool.MarkDead(node, t.Config.DeadNodePolicy(), reqEnd)
			t.Metrics.recordDeadNode()
			t.Metrics.recordRetry()
			lastErr = &UnexpectedStatusError{StatusCode: resp.StatusCode, Node: node}
		}
	}

	t.Metrics.recordRequest(false)
	if retryLimit == 0 {
		return t.failureDetails(method, path, audit, lastErr)
	}
	if attempts > retryLimit {
		audit.Append(EventMaxRetriesReached, nil, t.Config.TimeNow(), t.Config.TimeNow(), nil)
		return t.failureDetails(method, path, audit, &MaxRetriesError{Attempts: attempts, Last: lastErr})
	}
	audit.Append(EventFailedOverAllNodes, nil, t.Config.TimeNow(), t.Config.TimeNow(), nil)
	return t.failureDetails(method, path, audit, lastErr)
}

// elapsedSince returns the elapsed duration from start according to the
// transport's configured clock.
func (t *Transport) elapsedSince(start time.Time) time.Duration {
	return t.Config.TimeNow().Sub(start)
}

// classify resolves a response's [StatusClass]: a status in
// [BoundConfig.AllowedStatusCodes] (the default 200-299 range plus any
// caller-supplied codes) always succeeds; anything else defers to
// [ProductRegistration.HTTPStatusCodeClassifier].
func (t *Transport) classify(bc *BoundConfig, method string, statusCode int) StatusClass {
	if bc.AllowedStatusCodes[statusCode] {
		return StatusSuccess
	}
	return t.Registration.HTTPStatusCodeClassifier(method, statusCode)
}

// retryLimit computes min(configured max, pool size - 1), per §9's
// clamping rule. A one-node pool (or a configured max of zero) yields
// zero retries: no failover is attempted and no exhaustion event is
// appended when the sole attempt fails (see scenario 1 in §8).
func (t *Transport) retryLimit(rc RequestConfig) int {
	poolSize := len(t.Pool.Nodes())
	limit := poolSize - 1
	if limit < 0 {
		limit = 0
	}
	configured := t.Config.MaxRetries
	if rc.MaxRetries >= 0 {
		configured = rc.MaxRetries
	}
	if configured >= 0 && configured < limit {
		limit = configured
	}
	return limit
}

// sniffPrelude implements §4.1's sniff-on-startup and sniff-on-stale
// checks, swallowing sniff errors (the sniff subroutine itself records
// [EventSniffFailure]; a failed sniff never aborts the call).
func (t *Transport) sniffPrelude(ctx context.Context, audit *AuditTrail) {
	if !t.Pool.SupportsReseeding() {
		return
	}

	if t.Config.SniffOnStartup && !t.bootstrap.fired() {
		t.bootstrap.run(func() error {
			audit.Append(EventSniffOnStartup, nil, t.Config.TimeNow(), t.Config.TimeNow(), nil)
			return t.sniff(ctx, audit)
		})
	}

	if t.Config.SniffOnStale && t.Config.TimeNow().Sub(t.Pool.LastUpdate()) > t.Config.SniffStaleInterval {
		audit.Append(EventSniffOnStaleCluster, nil, t.Config.TimeNow(), t.Config.TimeNow(), nil)
		_ = t.sniff(ctx, audit)
	}
}

// sniff implements the sniff subroutine (§4.1): it tries sniff-eligible
// nodes in order, reseeding the pool on the first success.
func (t *Transport) sniff(ctx context.Context, audit *AuditTrail) error {
	nodes := t.Pool.Nodes()
	candidates := FilterSniffCandidates(t.Registration, nodes)
	if t.Config.NodePredicate != nil {
		candidates = nil
		for _, n := range nodes {
			if t.Config.NodePredicate(n) {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			candidates = nodes
		}
	}

	var lastErr error
	for _, node := range candidates {
		endpoint := NewEndpoint(http.MethodGet, t.Registration.SniffPath(), node)
		sctx, cancel := context.WithTimeout(ctx, t.Config.SniffTimeout)
		raw := &RawRequest{Method: http.MethodGet, URL: endpoint.URL(), Headers: http.Header{}}
		start := t.Config.TimeNow()
		resp, err := t.Invoker.Invoke(sctx, endpoint, newBoundConfig(t.Config, RequestConfig{}), raw)
		cancel()
		end := t.Config.TimeNow()

		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if err == nil {
				err = &UnexpectedStatusError{StatusCode: resp.StatusCode, Node: node}
			}
			lastErr = err
			continue
		}

		nodes, err := t.Registration.ParseSniffResponse(resp.Body, t.Config.ForceTLS)
		if err != nil {
			lastErr = err
			continue
		}

		if err := t.Pool.Reseed(nodes, end); err != nil {
			return err
		}
		audit.Append(EventSniffSuccess, node, start, end, nil)
		t.Metrics.recordSniff(true)
		return nil
	}

	audit.Append(EventSniffFailure, nil, t.Config.TimeNow(), t.Config.TimeNow(), lastErr)
	t.Metrics.recordSniff(false)
	return lastErr
}

// ping implements the ping subroutine (§4.1): a single request to
// [ProductRegistration.PingPath], bounded by [Config.PingTimeout] but
// never larger than the remaining call budget.
func (t *Transport) ping(ctx context.Context, node *Node, bc *BoundConfig) bool {
	pctx, cancel := context.WithTimeout(ctx, t.Config.PingTimeout)
	defer cancel()

	endpoint := NewEndpoint(http.MethodGet, t.Registration.PingPath(), node)
	raw := &RawRequest{Method: http.MethodGet, URL: endpoint.URL(), Headers: http.Header{}}
	resp, err := t.Invoker.Invoke(pctx, endpoint, bc, raw)
	if err != nil {
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// buildHeaders merges product defaults with [BoundConfig.Headers],
// applying authentication last so it always wins.
func (t *Transport) buildHeaders(bc *BoundConfig, rc RequestConfig) http.Header {
	headers := http.Header{}
	for key, value := range t.Registration.DefaultHeaders() {
		headers.Set(key, value)
	}
	headers.Set("Content-Type", bc.ContentType)
	mimes := bc.AcceptMimeTypes
	if len(mimes) == 0 {
		mimes = t.Registration.DefaultMimeTypes()
	}
	for _, mime := range mimes {
		headers.Add("Accept", mime)
	}
	for key, values := range bc.Headers {
		headers[key] = values
	}
	req := &RawRequest{Headers: headers}
	if bc.Authentication != nil {
		bc.Authentication(req)
	}
	return req.Headers
}

// successDetails builds the [*ApiCallDetails] for a successful attempt.
func (t *Transport) successDetails(method, url string, resp *RawResponse, audit *AuditTrail) *ApiCallDetails {
	details := &ApiCallDetails{
		Method:              method,
		URL:                 url,
		StatusCode:          resp.StatusCode,
		Success:             true,
		Audit:               audit,
		ResponseBody:        resp.Body,
		ResponseHeaders:     resp.Headers,
		MimeType:            resp.Headers.Get("Content-Type"),
		SuccessOrKnownError: true,
	}
	return details
}

// failureDetails builds the [*ApiCallDetails] for a call that never
// received a usable HTTP response.
func (t *Transport) failureDetails(method, path string, audit *AuditTrail, err error) *ApiCallDetails {
	return &ApiCallDetails{
		Method:            method,
		URL:               NewEndpoint(method, path, nil).URL(),
		Success:           false,
		Audit:             audit,
		OriginalException: err,
	}
}

// failureDetailsWithResponse builds the [*ApiCallDetails] for a known,
// non-retriable client error: the response body still flows back to
// the caller per §7's propagation policy.
func (t *Transport) failureDetailsWithResponse(method, url string, resp *RawResponse, audit *AuditTrail, err error) *ApiCallDetails {
	return &ApiCallDetails{
		Method:              method,
		URL:                 url,
		StatusCode:          resp.StatusCode,
		Success:             false,
		Audit:               audit,
		ResponseBody:        resp.Body,
		ResponseHeaders:     resp.Headers,
		MimeType:            resp.Headers.Get("Content-Type"),
		OriginalException:   err,
		SuccessOrKnownError: true,
	}
}
