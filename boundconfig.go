// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"net/http"
	"time"
)

// BoundConfig is the effective, immutable configuration for one HTTP
// attempt, produced by merging [Config] defaults, a [RequestConfig], and
// node-derived values.
type BoundConfig struct {
	RequestTimeout         time.Duration
	HTTPCompression        bool
	ContentType            string
	AcceptMimeTypes        []string
	DisableDirectStreaming bool
	Authentication         func(req *RawRequest)
	Headers                http.Header
	DisablePings           bool
	AllowedStatusCodes     map[int]bool
	TLSConfig              *RawTLSConfig
}

// RawTLSConfig is the minimal TLS configuration surface exposed to an
// [Invoker], mirroring the fields [*Config.TLSConfig] offers without
// forcing invokers to depend on crypto/tls directly in their public
// signatures.
type RawTLSConfig struct {
	InsecureSkipVerify bool
	ServerName         string
}

// newBoundConfig merges transport defaults with a per-call
// [RequestConfig] into a [BoundConfig].
func newBoundConfig(cfg *Config, rc RequestConfig) *BoundConfig {
	bc := &BoundConfig{
		RequestTimeout:         cfg.RequestTimeout,
		HTTPCompression:        cfg.HTTPCompression,
		ContentType:            "application/json",
		AcceptMimeTypes:        cfg.AcceptMimeTypes,
		DisableDirectStreaming: cfg.DisableDirectStreaming,
		Authentication:         cfg.Authentication,
		Headers:                http.Header{},
		DisablePings:           cfg.DisablePings,
		AllowedStatusCodes:     map[int]bool{},
	}
	if cfg.TLSConfig != nil {
		bc.TLSConfig = &RawTLSConfig{
			InsecureSkipVerify: cfg.TLSConfig.InsecureSkipVerify,
			ServerName:         cfg.TLSConfig.ServerName,
		}
	}
	for code := 200; code < 300; code++ {
		bc.AllowedStatusCodes[code] = true
	}

	if rc.RequestTimeout > 0 {
		bc.RequestTimeout = rc.RequestTimeout
	}
	if rc.HTTPCompression != nil {
		bc.HTTPCompression = *rc.HTTPCompression
	}
	if rc.ContentType != "" {
		bc.ContentType = rc.ContentType
	}
	if rc.DisableDirectStreaming != nil {
		bc.DisableDirectStreaming = *rc.DisableDirectStreaming
	}
	if rc.Authentication != nil {
		bc.Authentication = rc.Authentication
	}
	if rc.DisablePings != nil {
		bc.DisablePings = *rc.DisablePings
	}
	for code := range rc.AllowedStatusCodes {
		bc.AllowedStatusCodes[code] = true
	}
	for key, values := range rc.Headers {
		for _, v := range values {
			bc.Headers.Add(key, v)
		}
	}
	return bc
}
