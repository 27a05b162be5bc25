// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package kdf wraps github.com/bytemare/hash to expose the HKDF-SHA256 and
// HMAC-SHA256 primitives spec.md §2 fixes for the suite.
package kdf

import (
	"crypto"
	"crypto/hmac"

	"github.com/bytemare/hash"
)

// Size is the fixed output size, in bytes, of the suite's hash function.
const Size = 32

// New returns an HKDF wrapper over SHA-256.
func New() *KDF {
	return &KDF{h: hash.FromCrypto(crypto.SHA256).GetHashFunction()}
}

// KDF exposes the HKDF-Extract/Expand operations used throughout the
// protocol: deriving the envelope pad and HMAC key, and deriving the
// session/MAC keys in the AKE.
type KDF struct {
	h *hash.Fixed
}

// Extract runs HKDF-Extract(salt, ikm).
func (k *KDF) Extract(salt, ikm []byte) []byte {
	return k.h.HKDFExtract(ikm, salt)
}

// Expand runs HKDF-Expand(prk, info, length).
func (k *KDF) Expand(prk, info []byte, length int) []byte {
	return k.h.HKDFExpand(prk, info, length)
}

// Size returns the KDF's native output size.
func (k *KDF) Size() int {
	return k.h.Size()
}

// NewMAC returns an HMAC-SHA256 wrapper.
func NewMAC() *MAC {
	return &MAC{h: hash.FromCrypto(crypto.SHA256).GetHashFunction()}
}

// MAC exposes constant-time HMAC tag computation and verification.
type MAC struct {
	h *hash.Fixed
}

// Tag computes HMAC(key, message).
func (m *MAC) Tag(key, message []byte) []byte {
	return m.h.Hmac(message, key)
}

// Equal compares two tags in constant time.
func (m *MAC) Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}

// Size returns the MAC's output size.
func (m *MAC) Size() int {
	return m.h.Size()
}
