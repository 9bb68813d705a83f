// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/errclass.go
//

// Package errclass classifies network and TLS errors into short,
// descriptive labels suitable for structured logging and audit trails.
//
// The per-OS files ([classifyErrno] in unix.go and windows.go) complete
// this package: they existed in isolation, defining syscall errno
// constants with nothing to classify against them.
package errclass

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

// New classifies err into a short label (e.g. "ETIMEDOUT",
// "ECONNREFUSED"). It returns "" for a nil error or one it does not
// recognize.
func New(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "ECANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return "ETIMEDOUT"
	case errors.Is(err, net.ErrClosed):
		return "ECONNABORTED"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return "EDNSNXDOMAIN"
		case dnsErr.IsTimeout:
			return "ETIMEDOUT"
		default:
			return "EDNSSERVFAIL"
		}
	}

	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return "EX509HOSTNAMEMISMATCH"
	}
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthErr) {
		return "EX509UNKNOWNAUTHORITY"
	}
	var certInvalidErr x509.CertificateInvalidError
	if errors.As(err, &certInvalidErr) {
		return "EX509CERTIFICATEINVALID"
	}
	var recordHeaderErr tls.RecordHeaderError
	if errors.As(err, &recordHeaderErr) {
		return "EHANDSHAKE"
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if label := classifyErrno(errno); label != "" {
			return label
		}
	}

	// Generic timeout/temporary detection as a last resort, so that
	// wrapped errors from invokers outside our control still classify.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ETIMEDOUT"
	}

	return ""
}
