// Package cellular implements the module enablement sequence (spec.md
// component C8), the module context (C10), and the public host-facing API
// (spec.md §6.2) that ties the at/cellparse/cellfmt/socket/dnsresolve/band
// packages into one BG770 modem handle.
package cellular

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/dnsresolve"
	"github.com/binsentry/cellular-bg770/socket"
)

// Kind is the host-facing error taxonomy from spec.md §7.
type Kind int

const (
	Success Kind = iota
	InvalidHandle
	ModemNotReady
	LibraryNotOpen
	LibraryAlreadyOpen
	BadParameter
	NoMemory
	Timeout
	SocketClosed
	SocketNotConnected
	InternalFailure
	Unsupported
	NotAllowed
	Unknown
	FileUploadFailure
	FileAlreadyExists
	FileNotFound
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "Success"
	case InvalidHandle:
		return "InvalidHandle"
	case ModemNotReady:
		return "ModemNotReady"
	case LibraryNotOpen:
		return "LibraryNotOpen"
	case LibraryAlreadyOpen:
		return "LibraryAlreadyOpen"
	case BadParameter:
		return "BadParameter"
	case NoMemory:
		return "NoMemory"
	case Timeout:
		return "Timeout"
	case SocketClosed:
		return "SocketClosed"
	case SocketNotConnected:
		return "SocketNotConnected"
	case InternalFailure:
		return "InternalFailure"
	case Unsupported:
		return "Unsupported"
	case NotAllowed:
		return "NotAllowed"
	case FileUploadFailure:
		return "FileUploadFailure"
	case FileAlreadyExists:
		return "FileAlreadyExists"
	case FileNotFound:
		return "FileNotFound"
	default:
		return "Unknown"
	}
}

// CellularError is the uniform error type every host-facing operation
// returns, per spec.md §7.
type CellularError struct {
	Kind  Kind
	cause error
}

func (e *CellularError) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.cause.Error()
	}
	return e.Kind.String()
}

func (e *CellularError) Unwrap() error { return e.cause }

// newErr builds a CellularError of kind k with no wrapped cause.
func newErr(k Kind) *CellularError {
	return &CellularError{Kind: k}
}

// wrapErr builds a CellularError of kind k wrapping cause, preserving a
// stack trace the way the teacher's gsm package wraps at errors.
func wrapErr(k Kind, cause error) *CellularError {
	return &CellularError{Kind: k, cause: pkgerrors.WithStack(cause)}
}

// translatePktStatus maps an error returned by the at engine (or socket/
// dnsresolve, which wrap the same sentinels) into a CellularError. A nil
// err translates to a nil *CellularError, matching Go's usual err==nil
// success convention rather than spec.md's C-era explicit Success value.
func translatePktStatus(err error) *CellularError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return wrapErr(Timeout, err)
	case errors.Is(err, at.ErrClosed):
		return wrapErr(ModemNotReady, err)
	case errors.Is(err, cellfmt.ErrTooLong):
		return wrapErr(InternalFailure, err)
	case errors.Is(err, at.ErrError):
		return wrapErr(Unknown, err)
	case errors.Is(err, socket.ErrNotConnected):
		return wrapErr(SocketNotConnected, err)
	case errors.Is(err, socket.ErrClosed):
		return wrapErr(SocketClosed, err)
	case errors.Is(err, socket.ErrInvalidState):
		return wrapErr(NotAllowed, err)
	case errors.Is(err, dnsresolve.ErrTimeout):
		return wrapErr(Timeout, err)
	case errors.Is(err, dnsresolve.ErrFailed):
		return wrapErr(Unknown, err)
	}
	var cme at.CMEError
	if errors.As(err, &cme) {
		return wrapErr(InternalFailure, err)
	}
	var cms at.CMSError
	if errors.As(err, &cms) {
		return wrapErr(InternalFailure, err)
	}
	var openErr *socket.OpenError
	if errors.As(err, &openErr) {
		return wrapErr(Unknown, err)
	}
	return wrapErr(Unknown, err)
}
