// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake implements the triple-DH authenticated key exchange of
// spec.md §4.5: combining each side's long-term and ephemeral keypairs
// into a shared IKM, deriving the session key schedule from it, and
// producing/verifying the two authentication tags that bind the schedule
// to the handshake transcript.
package ake

import (
	"crypto/sha256"

	"github.com/quietkey/opaque/internal/encoding"
	"github.com/quietkey/opaque/internal/group"
	"github.com/quietkey/opaque/internal/kdf"
	"github.com/quietkey/opaque/internal/secret"
	"github.com/quietkey/opaque/internal/transcript"
	"github.com/quietkey/opaque/message"
)

// KeysLength is the total number of bytes the key schedule expands to:
// five 32-byte keys.
const KeysLength = 5 * encoding.HashLen

// NewEphemeral samples a fresh ephemeral DH keypair for one side of a
// handshake.
func NewEphemeral() (priv *group.Scalar, pub []byte) {
	priv = group.RandomScalar()

	return priv, group.EncodePoint(group.ScalarBaseMult(priv))
}

// ClientIKM computes the client's view of the triple-DH shared secret:
// xu*Ps ‖ pu*Xs ‖ xu*Xs, where xu/pu are the client's ephemeral and
// long-term secrets and Xs/Ps are the server's ephemeral and long-term
// public keys. spec.md §4.5 fixes this as term1‖term2‖ee, the
// ephemeral-ephemeral term last; original_source/src/opaque.c's
// opaque_user_3dh computes the same three terms in the same order.
func ClientIKM(xu *group.Scalar, xsPub []byte, pu *group.Scalar, psPub []byte) ([]byte, error) {
	xs, err := group.DecodePoint(xsPub)
	if err != nil {
		return nil, err
	}

	ps, err := group.DecodePoint(psPub)
	if err != nil {
		return nil, err
	}

	term1 := group.Mult(ps, xu)
	term2 := group.Mult(xs, pu)
	ee := group.Mult(xs, xu)

	return encoding.Concat(group.EncodePoint(term1), group.EncodePoint(term2), group.EncodePoint(ee)), nil
}

// ServerIKM computes the server's view of the same triple-DH shared
// secret: ps*Xu ‖ xs*Pu ‖ xs*Xu, the same term1‖term2‖ee ordering
// ClientIKM uses. It is algebraically identical to ClientIKM's output
// given matching keypairs.
func ServerIKM(xs *group.Scalar, xuPub []byte, ps *group.Scalar, puPub []byte) ([]byte, error) {
	xu, err := group.DecodePoint(xuPub)
	if err != nil {
		return nil, err
	}

	pu, err := group.DecodePoint(puPub)
	if err != nil {
		return nil, err
	}

	term1 := group.Mult(xu, ps)
	term2 := group.Mult(pu, xs)
	ee := group.Mult(xu, xs)

	return encoding.Concat(group.EncodePoint(term1), group.EncodePoint(term2), group.EncodePoint(ee)), nil
}

// ComputeInfo computes info = SHA-256(nonceU ‖ nonceS ‖ idU ‖ idS), the
// HKDF-Expand info field spec.md §4.5 requires when deriving the session
// key schedule, binding sk and the MAC keys to the two session nonces and
// the two parties' identities. idU and idS are each framed with
// encoding.EncodeVector16 before hashing, the same length-prefixing the
// transcript uses for its own variable-length application fields, so that
// e.g. idU="al",idS="ice" can never hash the same as idU="ali",idS="ce".
func ComputeInfo(nonceU, nonceS, idU, idS []byte) []byte {
	sum := sha256.Sum256(encoding.Concat(nonceU, nonceS, encoding.EncodeVector16(idU), encoding.EncodeVector16(idS)))

	return sum[:]
}

// DeriveKeys expands a triple-DH IKM into the session key schedule: the
// shared secret sk, the two MAC keys that authenticate the handshake, and
// two keys the caller exports for its own use. info is the spec.md §4.5
// hash ComputeInfo produces; it must match on both sides of the handshake
// for sk to agree.
func DeriveKeys(ikm, info []byte) (*message.Keys, error) {
	k := kdf.New()
	prk := k.Extract(nil, ikm)
	defer secret.Wipe(prk)

	out := k.Expand(prk, info, KeysLength)
	defer secret.Wipe(out)

	return &message.Keys{
		Sk:  append([]byte(nil), out[0:32]...),
		Km2: append([]byte(nil), out[32:64]...),
		Km3: append([]byte(nil), out[64:96]...),
		Ke2: append([]byte(nil), out[96:128]...),
		Ke3: append([]byte(nil), out[128:160]...),
	}, nil
}

// Session accumulates the handshake transcript that the two
// authentication tags are computed over. Its Clone method backs the
// save-point spec.md §4.5 requires before absorbing info3 and einfo3: the
// server tags the shorter transcript for its own auth and keeps the clone,
// extended with info3/einfo3, to verify the client's authU later.
type Session struct {
	t *transcript.Transcript
}

// NewSession starts a fresh, empty transcript.
func NewSession() *Session {
	return &Session{t: transcript.New()}
}

// Absorb appends data to the transcript, in call order.
func (s *Session) Absorb(parts ...[]byte) {
	s.t.Absorb(parts...)
}

// Clone returns an independent copy of the transcript's current state.
func (s *Session) Clone() *Session {
	return &Session{t: s.t.Clone()}
}

// Tag computes HMAC(key, SHA-256(transcript)) over the transcript's current
// state: the MAC input is the running hash's digest, not the raw bytes.
func (s *Session) Tag(key []byte) []byte {
	mac := kdf.NewMAC()

	return mac.Tag(key, s.t.Sum())
}

// Verify reports whether tagBytes authenticates the transcript's current
// state under key, in constant time.
func (s *Session) Verify(key, tagBytes []byte) bool {
	mac := kdf.NewMAC()

	return mac.Equal(s.Tag(key), tagBytes)
}
