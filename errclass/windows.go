//go:build windows

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/windows.go
//

package errclass

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	errEADDRNOTAVAIL   = windows.WSAEADDRNOTAVAIL
	errEADDRINUSE      = windows.WSAEADDRINUSE
	errECONNABORTED    = windows.WSAECONNABORTED
	errECONNREFUSED    = windows.WSAECONNREFUSED
	errECONNRESET      = windows.WSAECONNRESET
	errEHOSTUNREACH    = windows.WSAEHOSTUNREACH
	errEINVAL          = windows.WSAEINVAL
	errEINTR           = windows.WSAEINTR
	errENETDOWN        = windows.WSAENETDOWN
	errENETUNREACH     = windows.WSAENETUNREACH
	errENOBUFS         = windows.WSAENOBUFS
	errENOTCONN        = windows.WSAENOTCONN
	errEPROTONOSUPPORT = windows.WSAEPROTONOSUPPORT
	errETIMEDOUT       = windows.WSAETIMEDOUT
)

// classifyErrno maps a windows winsock errno to a short label.
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
