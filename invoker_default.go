// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
)

// DefaultInvoker implements [Invoker] by composing the connection
// primitives ([ConnectFunc], [TLSHandshakeFunc], [ObserveConnFunc],
// [CancelWatchFunc], [HTTPConnFunc]) into a single-attempt pipeline: one
// dial, one optional TLS handshake, one HTTP round trip. Each call opens
// and tears down its own connection, so a node the pipeline later marks
// dead never leaves a pooled connection believed healthy.
type DefaultInvoker struct {
	// Config supplies the dialer, TLS defaults, error classifier, and
	// clock shared with the rest of the pipeline.
	Config *Config

	// Logger receives the same Start/Done span events as every other
	// primitive in this package.
	Logger SLogger
}

// NewDefaultInvoker returns a [*DefaultInvoker] wired from cfg.
func NewDefaultInvoker(cfg *Config, logger SLogger) *DefaultInvoker {
	if logger == nil {
		logger = DefaultSLogger()
	}
	return &DefaultInvoker{Config: cfg, Logger: logger}
}

var _ Invoker = &DefaultInvoker{}

// Invoke implements [Invoker].
func (inv *DefaultInvoker) Invoke(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error) {
	parsed, err := url.Parse(req.URL)
	if err != nil {
		return nil, &PipelineMisconfigurationError{Reason: fmt.Sprintf("invalid endpoint URL: %v", err)}
	}

	host, port := splitHostPort(parsed)
	hostport := net.JoinHostPort(host, port)

	hc, err := inv.dial(ctx, parsed.Scheme, host, hostport, bc)
	if err != nil {
		return nil, &TransportError{Node: endpoint.Node, Err: err}
	}
	defer hc.Close()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &PipelineMisconfigurationError{Reason: fmt.Sprintf("invalid request: %v", err)}
	}
	httpReq.Header = req.Headers

	resp, err := hc.RoundTrip(httpReq)
	if err != nil {
		return nil, &TransportError{Node: endpoint.Node, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Node: endpoint.Node, Err: err}
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// dial resolves host and runs the connect/observe/cancel-watch/[tls]/
// httpconn pipeline, returning a ready-to-use [*HTTPConn].
func (inv *DefaultInvoker) dial(ctx context.Context, scheme, host, hostport string, bc *BoundConfig) (*HTTPConn, error) {
	resolver := &dialTargetResolver{}
	connectFn := NewConnectFunc(inv.Config, "tcp", inv.Logger)
	observeFn := NewObserveConnFunc(inv.Config, inv.Logger)
	cancelFn := NewCancelWatchFunc()

	if scheme == "https" {
		tlsFn := NewTLSHandshakeFunc(inv.Config, inv.tlsConfig(bc, host), inv.Logger)
		httpconnFn := NewHTTPConnFuncTLS(inv.Config, inv.Logger)
		pipeline := Compose6[string, netip.AddrPort, net.Conn, net.Conn, net.Conn, TLSConn, *HTTPConn](
			resolver, connectFn, observeFn, cancelFn, tlsFn, httpconnFn)
		return pipeline.Call(ctx, hostport)
	}

	httpconnFn := NewHTTPConnFuncPlain(inv.Config, inv.Logger)
	pipeline := Compose5[string, netip.AddrPort, net.Conn, net.Conn, net.Conn, *HTTPConn](
		resolver, connectFn, observeFn, cancelFn, httpconnFn)
	return pipeline.Call(ctx, hostport)
}

// tlsConfig builds the [*tls.Config] for one attempt, applying
// [Config.TLSConfig] and any [BoundConfig.TLSConfig] override.
func (inv *DefaultInvoker) tlsConfig(bc *BoundConfig, host string) *tls.Config {
	var cfg *tls.Config
	if inv.Config.TLSConfig != nil {
		cfg = inv.Config.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	if bc.TLSConfig != nil {
		if bc.TLSConfig.ServerName != "" {
			cfg.ServerName = bc.TLSConfig.ServerName
		}
		if bc.TLSConfig.InsecureSkipVerify {
			cfg.InsecureSkipVerify = true
		}
	}
	return cfg
}

// splitHostPort extracts the dial host and port from a request URL,
// defaulting the port by scheme when absent.
func splitHostPort(u *url.URL) (host, port string) {
	host = u.Hostname()
	port = u.Port()
	if port != "" {
		return host, port
	}
	if u.Scheme == "https" {
		return host, "443"
	}
	return host, "80"
}

// dialTargetResolver resolves a "host:port" string into a
// [netip.AddrPort], feeding [ConnectFunc]'s address-family-agnostic
// input. IP literals resolve without a DNS lookup.
type dialTargetResolver struct{}

var _ Func[string, netip.AddrPort] = &dialTargetResolver{}

// Call implements [Func].
func (r *dialTargetResolver) Call(ctx context.Context, hostport string) (netip.AddrPort, error) {
	host, portString, err := net.SplitHostPort(hostport)
	if err != nil {
		return netip.AddrPort{}, err
	}
	port, err := strconv.ParseUint(portString, 10, 16)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return netip.AddrPortFrom(addr, uint16(port)), nil
	}
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if len(addrs) == 0 {
		return netip.AddrPort{}, fmt.Errorf("ctransport: no addresses found for %s", host)
	}
	return netip.AddrPortFrom(addrs[0].Unmap(), uint16(port)), nil
}
