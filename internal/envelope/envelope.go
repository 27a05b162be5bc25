// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package envelope implements Seal and Open from spec.md §4.2: the
// construction that binds a user's long-term keypair and the server's
// long-term public key to the randomized password rw, so that the server
// never sees the plaintext client secret key and the client never needs
// to store it itself.
package envelope

import (
	"crypto/rand"
	"errors"

	"github.com/quietkey/opaque/internal/encoding"
	"github.com/quietkey/opaque/internal/kdf"
	"github.com/quietkey/opaque/internal/secret"
	"github.com/quietkey/opaque/internal/tag"
	"github.com/quietkey/opaque/message"
)

// ExportKeyLength is the fixed length of the export key Seal and Open
// both produce, an application-facing secret independent of the session
// keys the AKE later derives.
const ExportKeyLength = 32

// ErrAuth is returned by Open when the envelope's tag does not verify,
// meaning the supplied password or a tampered envelope does not match the
// credentials that sealed it.
var ErrAuth = errors.New("envelope: authentication failed")

const authKeyLength = encoding.HashLen

// Seal derives an envelope-local key schedule from rw and a fresh nonce,
// uses it to pad-encrypt the client's private key pu, both parties' public
// keys, and the caller's secret extra payload together, HMACs the result
// together with clear, the separate and genuinely optional plaintext
// associated data spec.md §4.2 also describes, and returns the envelope
// alongside the export key. extra is sealed inside SecretCT, never left in
// the clear; clear is authenticated but not encrypted.
func Seal(rw, pu, pubU, pubS, extra, clear []byte) (*message.Blob, []byte, error) {
	nonce := make([]byte, encoding.HashLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	secretPlain := encoding.Concat(pu, pubU, pubS, extra)

	pad, authKey, exportKey := schedule(rw, nonce, len(secretPlain))
	defer secret.Wipe(pad)
	defer secret.Wipe(authKey)

	secretCT := xor(pad, secretPlain)

	mac := kdf.NewMAC()
	tagBytes := mac.Tag(authKey, encoding.Concat(nonce, secretCT, clear))

	return &message.Blob{Nonce: nonce, SecretCT: secretCT, Clear: clear, Tag: tagBytes}, exportKey, nil
}

// Open recomputes the envelope's key schedule from rw and the envelope's
// own nonce, verifies its tag in constant time, and on success returns the
// client's private key, both public keys, the recovered secret extra
// payload, and the export key. The extra payload's length follows from
// blob.SecretCT's own length, which the caller already validated on the
// wire.
func Open(rw []byte, blob *message.Blob) (pu, pubU, pubS, extra, exportKey []byte, err error) {
	pad, authKey, exportKey := schedule(rw, blob.Nonce, len(blob.SecretCT))
	defer secret.Wipe(pad)
	defer secret.Wipe(authKey)

	mac := kdf.NewMAC()
	want := mac.Tag(authKey, encoding.Concat(blob.Nonce, blob.SecretCT, blob.Clear))

	if !mac.Equal(want, blob.Tag) {
		secret.Wipe(exportKey)

		return nil, nil, nil, nil, nil, ErrAuth
	}

	secretPlain := xor(pad, blob.SecretCT)

	return secretPlain[0:32], secretPlain[32:64], secretPlain[64:96], secretPlain[96:], exportKey, nil
}

// schedule derives the pad, HMAC key and export key for a given rw and
// nonce via a single HKDF-Expand keyed directly by rw, with nonce folded
// into the info field alongside the envelope's domain tag. There is no
// HKDF-Extract step: rw is the PRK, matching the original's
// crypto_kdf_hkdf_sha256_expand(keys, ctx=nonce||"EnvU", rwd).
func schedule(rw, nonce []byte, secretLen int) (pad, authKey, exportKey []byte) {
	k := kdf.New()
	info := encoding.Concat(nonce, []byte(tag.EnvelopeInfo))
	expandLength := secretLen + authKeyLength + ExportKeyLength

	expanded := k.Expand(rw, info, expandLength)

	pad = append([]byte(nil), expanded[0:secretLen]...)
	authKey = append([]byte(nil), expanded[secretLen:secretLen+authKeyLength]...)
	exportKey = append([]byte(nil), expanded[secretLen+authKeyLength:]...)

	secret.Wipe(expanded)

	return pad, authKey, exportKey
}

// xor returns a fresh slice holding a XOR b. The caller guarantees equal
// lengths.
func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out
}
