// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package transcript maintains the running SHA-256 hash of the AKE
// handshake. spec.md §4.5 requires the server to take a save point before
// absorbing info3 and einfo3, so that one running hash yields both the
// shorter transcript its own auth tag covers and the longer one the
// client's authU covers; crypto/sha256's hash.Hash implementation supports encoding.BinaryMarshaler,
// which is exactly the save/restore primitive this needs.
package transcript

import (
	"crypto/sha256"
	"encoding"
	"hash"
)

// Transcript is an append-only, clonable running hash over the handshake
// messages absorbed so far.
type Transcript struct {
	h hash.Hash
}

// New starts a fresh transcript.
func New() *Transcript {
	return &Transcript{h: sha256.New()}
}

// Absorb appends data to the transcript, in order.
func (t *Transcript) Absorb(data ...[]byte) {
	for _, d := range data {
		t.h.Write(d) //nolint:errcheck // hash.Hash.Write never errors
	}
}

// Clone returns an independent copy of the transcript's current state, so
// that absorbing further data on one branch leaves the other untouched.
func (t *Transcript) Clone() *Transcript {
	marshaler, ok := t.h.(encoding.BinaryMarshaler)
	if !ok {
		panic("transcript: hash implementation does not support Clone")
	}

	state, err := marshaler.MarshalBinary()
	if err != nil {
		panic(err)
	}

	clone := sha256.New()

	unmarshaler, ok := clone.(encoding.BinaryUnmarshaler)
	if !ok {
		panic("transcript: hash implementation does not support Clone")
	}

	if err := unmarshaler.UnmarshalBinary(state); err != nil {
		panic(err)
	}

	return &Transcript{h: clone}
}

// Sum returns the transcript's current digest without mutating its state.
func (t *Transcript) Sum() []byte {
	return t.h.Sum(nil)
}
