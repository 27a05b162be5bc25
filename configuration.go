// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import "github.com/quietkey/opaque/internal/encoding"

// Configuration names the fixed cipher suite this engine implements: the
// group, KDF, MAC, hash, KSF and nonce length spec.md commits to with no
// on-wire negotiation. It mirrors the shape of the teacher's
// Parameters/internal.Configuration split, minus the pluggability — this
// suite has exactly one member, so Configuration exists to name it, not to
// select among alternatives.
type Configuration struct {
	Group    string
	KDF      string
	MAC      string
	Hash     string
	KSF      string
	NonceLen int
}

// DefaultConfiguration returns the single cipher suite spec.md fixes:
// Ristretto255, HKDF-SHA256, HMAC-SHA256, SHA-256, and Argon2id with
// libsodium's interactive parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Group:    "ristretto255",
		KDF:      "HKDF-SHA256",
		MAC:      "HMAC-SHA256",
		Hash:     "SHA-256",
		KSF:      "Argon2id-interactive",
		NonceLen: encoding.NonceLen,
	}
}

// Identities names the two parties bound into a handshake's key-derivation
// info hash (ake.ComputeInfo), not into the transcript. An empty field is
// hashed as an empty identity; no public key is substituted for it.
type Identities struct {
	Client []byte
	Server []byte
}

// AppInfo carries the application-defined byte strings spec.md §4.5 lets
// callers bind into the handshake transcript at each flight. Any of these
// may be left nil.
type AppInfo struct {
	Info1, Info2, EInfo2, Info3, EInfo3 []byte
}

// SessionResult is the key material a successful login produces: a shared
// secret and two further keys exported for the caller's own protocol, for
// example to seal a transport channel.
type SessionResult struct {
	Sk, Ke2, Ke3 []byte
}
