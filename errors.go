// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrorCode classifies the failure modes an engine call can report.
type ErrorCode int

const (
	// ErrInvalidPoint means a wire-supplied group element or scalar failed
	// to decode, or decoded outside the prime-order subgroup.
	ErrInvalidPoint ErrorCode = iota + 1

	// ErrMemoryLock means a secret buffer could not be locked against swap.
	// No operation in this package returns it: locking is best-effort and a
	// failed lock does not stop the operation.
	ErrMemoryLock

	// ErrPwHashOOM means the key stretching function exhausted its memory
	// budget.
	ErrPwHashOOM

	// ErrEnvelopeAuth means an envelope's tag did not verify: the supplied
	// password does not match the credentials that sealed it, or the
	// envelope was tampered with.
	ErrEnvelopeAuth

	// ErrServerAuth means the client rejected the server's authentication
	// tag: the peer does not hold the expected long-term key, or the
	// transcript was tampered with in flight.
	ErrServerAuth

	// ErrUserAuth means the server rejected the client's authentication
	// tag.
	ErrUserAuth

	// ErrOverflow means a length field decoded off the wire exceeds what
	// this engine is willing to allocate.
	ErrOverflow

	// ErrBadArg means a caller supplied an argument outside its documented
	// range, such as an empty password. Mismatched identities are not
	// detected here; they surface as ErrServerAuth.
	ErrBadArg
)

// String returns the error code's name.
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidPoint:
		return "invalid point"
	case ErrMemoryLock:
		return "memory lock failed"
	case ErrPwHashOOM:
		return "password hashing out of memory"
	case ErrEnvelopeAuth:
		return "envelope authentication failed"
	case ErrServerAuth:
		return "server authentication failed"
	case ErrUserAuth:
		return "user authentication failed"
	case ErrOverflow:
		return "length field out of range"
	case ErrBadArg:
		return "invalid argument"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every exported engine operation. It
// carries a stable ErrorCode for programmatic matching alongside a
// human-readable message and, where relevant, the error that triggered it.
type Error struct {
	Code ErrorCode
	msg  string
	err  error
}

func newError(code ErrorCode, msg string, err error) *Error {
	return &Error{Code: code, msg: msg, err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("opaque: %s: %s: %v", e.Code, e.msg, e.err)
	}

	return fmt.Sprintf("opaque: %s: %s", e.Code, e.msg)
}

// Unwrap returns the underlying error, if any, so errors.Is/As can see
// through to it.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}

	return false
}

// Format implements fmt.Formatter, printing the wrapped error chain on %+v.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') && e.err != nil {
			fmt.Fprintf(f, "%s\n  caused by: %+v", e.Error(), e.err)

			return
		}

		fmt.Fprint(f, e.Error())
	default:
		fmt.Fprint(f, e.Error())
	}
}

// LogValue implements slog.LogValuer so logging an *Error surfaces its
// code and cause as structured fields instead of a single opaque string.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.Code.String()),
		slog.String("message", e.msg),
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(attrs...)
}
