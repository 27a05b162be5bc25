// SPDX-License-Identifier: MIT
//
// Copyright (C) 2021 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static domain-separation strings used throughout
// the protocol, so that a value hashed for one purpose can never collide,
// byte-for-byte, with a value hashed for another.
package tag

// These strings are the static tags and labels used throughout the protocol.
const (
	// OPRFHashToGroup domain-separates the password-to-group-element hash
	// used by Blind from any other hash-to-group operation in the engine.
	OPRFHashToGroup = "quietkey-OPAQUE-HashToGroup"

	// EnvelopeInfo domain-separates the HKDF-Expand call that derives the
	// envelope's pad, HMAC key and export key from rw.
	EnvelopeInfo = "EnvU"

	// Rwd domain-separates the BLAKE2b derivation of the client-side
	// derived key rwd from the envelope-seeding randomized password rw.
	Rwd = "rwd"
)
