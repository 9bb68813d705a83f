//go:build unix

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/unix.go
//

package errclass

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	errEADDRNOTAVAIL   = unix.EADDRNOTAVAIL
	errEADDRINUSE      = unix.EADDRINUSE
	errECONNABORTED    = unix.ECONNABORTED
	errECONNREFUSED    = unix.ECONNREFUSED
	errECONNRESET      = unix.ECONNRESET
	errEHOSTUNREACH    = unix.EHOSTUNREACH
	errEINVAL          = unix.EINVAL
	errEINTR           = unix.EINTR
	errENETDOWN        = unix.ENETDOWN
	errENETUNREACH     = unix.ENETUNREACH
	errENOBUFS         = unix.ENOBUFS
	errENOTCONN        = unix.ENOTCONN
	errEPROTONOSUPPORT = unix.EPROTONOSUPPORT
	errETIMEDOUT       = unix.ETIMEDOUT
)

// classifyErrno maps a unix syscall errno to a short label.
func classifyErrno(errno syscall.Errno) string {
	switch errno {
	case errECONNREFUSED:
		return "ECONNREFUSED"
	case errECONNRESET:
		return "ECONNRESET"
	case errECONNABORTED:
		return "ECONNABORTED"
	case errETIMEDOUT:
		return "ETIMEDOUT"
	case errEHOSTUNREACH:
		return "EHOSTUNREACH"
	case errENETDOWN, errENETUNREACH:
		return "ENETUNREACH"
	case errEADDRNOTAVAIL:
		return "EADDRNOTAVAIL"
	case errEADDRINUSE:
		return "EADDRINUSE"
	case errENOTCONN:
		return "ENOTCONN"
	case errENOBUFS:
		return "ENOBUFS"
	case errEPROTONOSUPPORT:
		return "EPROTONOSUPPORT"
	case errEINTR:
		return "EINTR"
	case errEINVAL:
		return "EINVAL"
	default:
		return ""
	}
}
