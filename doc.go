// SPDX-License-Identifier: GPL-3.0-or-later

// Package ctransport is a cluster-aware, resilient HTTP transport for
// talking to a distributed search/data cluster (e.g. an Elasticsearch-like
// product) from one or more seed node addresses.
//
// # Core Abstraction
//
// A [Transport] owns exactly one [NodePool], one [Invoker], and one
// [ProductRegistration] for its lifetime. [Transport.Execute] and
// [Transport.ExecuteAsync] run a single call through the Request Pipeline:
// pick a live node from the pool, optionally sniff the cluster topology or
// ping the node, hand the request to the [Invoker], classify the outcome,
// and either return or fail over to the next node — recording a structured
// [AuditTrail] along the way.
//
// # Node Pool
//
// [NodePool] implementations differ only in how [NodePool.CreateView]
// orders nodes and whether [NodePool.Reseed] is supported:
// [NewSingleNodePool], [NewStaticNodePool], [NewSniffingNodePool],
// [NewStickyNodePool], and [NewCloudNodePool] (seeded from a [ParseCloudID]
// result). A node that fails is quarantined by [DeadNodePolicy] with
// exponential backoff and later resurrected by [NodePool.CreateView] once
// its backoff expires.
//
// # Collaborators
//
// [Invoker] is the abstract capability that turns a bound [Endpoint] and
// request body into an HTTP response; [DefaultInvoker] implements it using
// the connection primitives below. [ProductRegistration] supplies the
// per-product hooks the pipeline calls at fixed points (sniff/ping
// requests, status classification, node eligibility); the pipeline itself
// never inspects payloads directly. [DefaultProductRegistration] implements the generic
// contract this package documents (see the sniff wire format in
// [ParseSniffResponse]).
//
// # Connection Primitives
//
// [DefaultInvoker] is built from composable, single-purpose primitives in
// the style of a measurement pipeline, each an implementation of:
//
//	type Func[A, B any] interface {
//		Call(ctx context.Context, input A) (B, error)
//	}
//
// composed with [Compose2] through [Compose8]:
//
//   - [ConnectFunc]: dials a node's host:port
//   - [TLSHandshakeFunc]: performs the TLS handshake for https nodes
//   - [ObserveConnFunc]: observes connections for logging I/O operations
//   - [CancelWatchFunc]: closes the connection when the call's context is done
//   - [HTTPConn] (via [NewHTTPConnFuncPlain]/[NewHTTPConnFuncTLS]): performs the
//     round trip with structured logging and transparent body observation
//
// Each invoker attempt opens and tears down its own connection (the h1
// transport disables keep-alives and uses a single-use dialer): a node
// marked dead by the pipeline must not leave a pooled connection believed
// healthy on the next attempt.
//
// # Observability
//
// All connection primitives, and so [DefaultInvoker], support structured
// logging via [SLogger] (compatible with [log/slog]), disabled by default;
// the pipeline itself does not log and records its decisions in the
// [AuditTrail] instead. Error
// classification is configurable via [ErrClassifier]; the default resolves
// to the completed errclass subpackage. Every pipeline transition that
// crosses a boundary (sniff, ping, request, node status change) appends
// exactly one [AuditEvent] to the call's [AuditTrail], which travels with
// the [ApiCallDetails] of every [Response], successful or not. When a
// [go.opentelemetry.io/otel/trace.Tracer] is configured, the same trail is
// translated into span events.
//
// Use [NewSpanID] to generate a unique, time-ordered identifier (UUIDv7)
// for correlating audit events, span ids, and log entries across a call.
//
// # Timeout and Context Philosophy
//
// This package is context-transparent: operations never modify the
// context they receive beyond deriving per-operation deadlines bounded by
// the remaining total-call budget (§5). The caller controls the overall
// timeout externally via [context.WithTimeout] or a [RequestConfig].
// [CancelWatchFunc] binds the context lifecycle to the connection so that
// cancellation is surfaced promptly as [EventCancellationRequested] rather
// than leaving an attempt to block past its deadline.
//
// # Design Boundaries
//
// This package intentionally does not provide: a general-purpose HTTP
// client, a circuit breaker beyond dead-node quarantine, or ordering
// guarantees across concurrent calls (each call is an independent
// pipeline instance; only the [NodePool] and the per-Transport bootstrap
// gate are shared).
package ctransport
