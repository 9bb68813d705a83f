// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"crypto/tls"
	"net"
	"time"
)

// Config holds transport-wide defaults, merged per call with a
// [RequestConfig] into a [BoundConfig].
//
// Pass this to [NewTransport] and to constructor functions that need to
// pre-wire dependencies. All fields have sensible defaults set by
// [NewConfig].
type Config struct {
	// Dialer is used by [*ConnectFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time

	// RequestTimeout bounds a single call's total wall-clock budget (§5).
	//
	// Set by [NewConfig] to [DefaultRequestTimeout].
	RequestTimeout time.Duration

	// PingTimeout bounds a single ping sub-call.
	//
	// Set by [NewConfig] to [DefaultPingTimeout].
	PingTimeout time.Duration

	// SniffTimeout bounds a single per-node sniff attempt.
	//
	// Set by [NewConfig] to [DefaultSniffTimeout].
	SniffTimeout time.Duration

	// MaxRetries caps the number of additional nodes tried after the
	// first. A negative value means "use the pool-derived default"
	// (node count minus one, clamped per §9).
	//
	// Set by [NewConfig] to -1.
	MaxRetries int

	// DeadTimeoutMin is the minimum dead-node quarantine duration.
	//
	// Set by [NewConfig] to [DefaultDeadTimeoutMin].
	DeadTimeoutMin time.Duration

	// DeadTimeoutMax is the maximum dead-node quarantine duration.
	//
	// Set by [NewConfig] to [DefaultDeadTimeoutMax].
	DeadTimeoutMax time.Duration

	// SniffOnStartup, when true, sniffs the cluster topology before the
	// very first call reaches the node loop.
	//
	// Set by [NewConfig] to false.
	SniffOnStartup bool

	// SniffOnStale, when true, re-sniffs whenever the pool's last update
	// is older than SniffStaleInterval.
	//
	// Set by [NewConfig] to false.
	SniffOnStale bool

	// SniffStaleInterval is how old the pool's last update may get before
	// SniffOnStale triggers a re-sniff.
	//
	// Set by [NewConfig] to [DefaultSniffStaleInterval].
	SniffStaleInterval time.Duration

	// DisablePings disables the resurrection ping for every call made
	// through this Config, unless overridden per call.
	//
	// Set by [NewConfig] to false.
	DisablePings bool

	// DisableDirectStreaming, when true, copies the request body into
	// [ApiCallDetails.RequestBody] so it shows in
	// [ApiCallDetails.DebugInformation]. Response bodies are kept in
	// [ApiCallDetails.ResponseBody] as described there, whatever this
	// setting.
	//
	// Set by [NewConfig] to false.
	DisableDirectStreaming bool

	// HTTPCompression enables gzip request/response compression.
	//
	// Set by [NewConfig] to false.
	HTTPCompression bool

	// ProxyAddress, when non-empty, is used as an HTTP proxy for outgoing
	// requests.
	//
	// Set by [NewConfig] to "".
	ProxyAddress string

	// Authentication, when non-nil, decorates every outgoing request
	// (e.g. setting an Authorization header).
	//
	// Set by [NewConfig] to nil.
	Authentication func(req *RawRequest)

	// TLSConfig is cloned and used for https nodes. A nil value means
	// the invoker uses a minimal default (see [DefaultInvoker]).
	//
	// Set by [NewConfig] to nil.
	TLSConfig *tls.Config

	// AcceptMimeTypes lists the MIME types sent in the Accept header.
	//
	// Set by [NewConfig] to [DefaultAcceptMimeTypes].
	AcceptMimeTypes []string

	// NodePredicate filters which nodes are eligible to receive a sniff
	// request; when it rejects every node, all nodes are eligible. A nil
	// value falls back to [ProductRegistration.NodePredicate].
	//
	// Set by [NewConfig] to nil.
	NodePredicate func(*Node) bool

	// ResponseDecorators run, in order, over every [ApiCallDetails],
	// successful or not, before it is returned to the caller.
	//
	// Set by [NewConfig] to nil.
	ResponseDecorators []func(*ApiCallDetails)

	// Tracer, when non-nil, causes [Transport.Execute] to open a span for
	// each call and translate its [AuditTrail] into span events.
	//
	// Set by [NewConfig] to nil.
	Tracer Tracer

	// Metrics, when non-nil, records counters for requests, retries,
	// dead nodes, and sniffs.
	//
	// Set by [NewConfig] to nil.
	Metrics *Metrics

	// ForceTLS selects https for nodes discovered by a sniff response
	// that carries no scheme of its own (§6).
	//
	// Set by [NewConfig] to false.
	ForceTLS bool
}

// DeadNodePolicy returns the [DeadNodePolicy] derived from
// [Config.DeadTimeoutMin] and [Config.DeadTimeoutMax].
func (c *Config) DeadNodePolicy() DeadNodePolicy {
	return NewDeadNodePolicy(c.DeadTimeoutMin, c.DeadTimeoutMax)
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialer:             &net.Dialer{},
		ErrClassifier:      DefaultErrClassifier,
		TimeNow:            time.Now,
		RequestTimeout:     DefaultRequestTimeout,
		PingTimeout:        DefaultPingTimeout,
		SniffTimeout:       DefaultSniffTimeout,
		MaxRetries:         -1,
		DeadTimeoutMin:     DefaultDeadTimeoutMin,
		DeadTimeoutMax:     DefaultDeadTimeoutMax,
		SniffStaleInterval: DefaultSniffStaleInterval,
		AcceptMimeTypes:    append([]string(nil), DefaultAcceptMimeTypes...),
	}
}

// Default timeout and retry values (§4, §9).
const (
	DefaultRequestTimeout     = 60 * time.Second
	DefaultPingTimeout        = 2 * time.Second
	DefaultSniffTimeout       = 2 * time.Second
	DefaultDeadTimeoutMin     = time.Minute
	DefaultDeadTimeoutMax     = 30 * time.Minute
	DefaultSniffStaleInterval = time.Hour
)

// DefaultAcceptMimeTypes is the default Accept header value set.
var DefaultAcceptMimeTypes = []string{"application/json"}
