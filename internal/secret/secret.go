// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package secret implements the lock-on-acquire / zeroise-on-release
// discipline that spec.md §5 and §9 require of every intermediate key,
// shared secret, blinding scalar and rw value. A Bytes wraps a byte slice,
// attempts to lock its backing pages against swap, and wipes them on
// Release, which must be called on every exit path including errors.
package secret

// Bytes is a byte buffer holding secret material for the lifetime of a
// single handshake or registration call.
type Bytes struct {
	b      []byte
	locked bool
}

// New allocates n bytes of secret storage and locks the pages if the
// platform allows it. Locking is best-effort: failure to lock does not
// prevent the buffer from being used, it only narrows the guarantee to
// zeroisation on release.
func New(n int) *Bytes {
	b := make([]byte, n)
	return &Bytes{b: b, locked: lock(b)}
}

// Wrap takes ownership of an existing slice, locking its pages if possible.
// Callers must not retain other references to b once it has been wrapped.
func Wrap(b []byte) *Bytes {
	return &Bytes{b: b, locked: lock(b)}
}

// Bytes returns the underlying buffer. The returned slice aliases internal
// storage and must not outlive a call to Release.
func (s *Bytes) Bytes() []byte {
	if s == nil {
		return nil
	}

	return s.b
}

// Len returns the length of the underlying buffer.
func (s *Bytes) Len() int {
	if s == nil {
		return 0
	}

	return len(s.b)
}

// Release zeroises the buffer and unlocks its pages. It is safe to call
// Release more than once and on a nil receiver.
func (s *Bytes) Release() {
	if s == nil || s.b == nil {
		return
	}

	for i := range s.b {
		s.b[i] = 0
	}

	if s.locked {
		unlock(s.b)
	}

	s.b = nil
}

// Wipe zeroises a plain byte slice in place. Used for scratch buffers that
// were never worth the cost of a dedicated locked allocation, but must still
// not survive past their handshake step.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
