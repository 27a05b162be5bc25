// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the Diffie-Hellman OPRF of spec.md §4.1: a
// client blinds its password into a group element, the server evaluates
// it under its own OPRF key, and the client unblinds and stretches the
// result into the randomized password rw that seeds the envelope.
package oprf

import (
	"golang.org/x/crypto/blake2b"

	"github.com/quietkey/opaque/internal/group"
	"github.com/quietkey/opaque/internal/ksf"
	"github.com/quietkey/opaque/internal/tag"
)

// RwLength is the fixed length, in bytes, of the randomized password rw
// this package produces.
const RwLength = 32

// Blind samples a fresh blinding scalar and returns it together with
// alpha = r * HashToGroup(password), the value sent to the server.
func Blind(password []byte) (blind *group.Scalar, alpha []byte) {
	blind = group.RandomScalar()
	p := group.HashToGroup(password, []byte(tag.OPRFHashToGroup))
	a := group.Mult(p, blind)

	return blind, group.EncodePoint(a)
}

// Evaluate computes beta = k_s * alpha under the server's OPRF key. A
// malformed or out-of-subgroup alpha is reported via group.ErrInvalidPoint.
func Evaluate(ks *group.Scalar, alphaBytes []byte) ([]byte, error) {
	a, err := group.DecodePoint(alphaBytes)
	if err != nil {
		return nil, err
	}

	b := group.Mult(a, ks)

	return group.EncodePoint(b), nil
}

// Finalize undoes the client's blinding factor, hashes the result together
// with the password and the caller's optional application-supplied key
// under a keyed BLAKE2b domain separator to produce h0, and stretches h0
// through the memory-hard key stretching function to produce the
// randomized password rw. This is the rw computation of spec.md §4.1,
// steps Unblind through KSF. key may be nil when the application does not
// contribute one.
func Finalize(password []byte, blind *group.Scalar, betaBytes, key []byte) ([]byte, error) {
	b, err := group.DecodePoint(betaBytes)
	if err != nil {
		return nil, err
	}

	n := group.InvertMult(b, blind)

	h0, err := keyedHash(key, password, group.EncodePoint(n))
	if err != nil {
		return nil, err
	}

	return ksf.Harden(h0, RwLength)
}

// keyedHash computes BLAKE2b-256 keyed by the caller's optional
// application key over password‖h0, matching spec.md §4.1's
// rw0 = BLAKE2b(key‖, pw ‖ H0, 32 bytes) and the original's
// crypto_generichash_init(&state, key, key_len, 32). A nil key yields an
// unkeyed BLAKE2b-256, which is what an application that contributes no
// key gets.
func keyedHash(key, password, h0 []byte) ([]byte, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return nil, err
	}

	h.Write(password)
	h.Write(h0)

	return h.Sum(nil), nil
}

// DeriveRwd computes the client-side derived key rwd = BLAKE2b(rw, "rwd",
// 32) of spec.md §4.4/§4.5: a value derived from rw that both the
// registration and login paths can compute and compare, without ever
// exposing rw itself to the server.
func DeriveRwd(rw []byte) ([]byte, error) {
	h, err := blake2b.New256(rw)
	if err != nil {
		return nil, err
	}

	h.Write([]byte(tag.Rwd))

	return h.Sum(nil), nil
}
