// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message defines the wire and storage layouts of spec.md §3 and
// §6: the three login flights, the at-rest user record, the sealed
// envelope, and the two private-registration messages. Every type here is
// a plain byte slicer — Serialize/Parse never alias or reinterpret raw
// memory, so field order and width are the only contract that matters.
package message

import (
	"errors"

	"github.com/quietkey/opaque/internal/encoding"
)

const (
	pointLen  = encoding.PointLen
	tagLen    = encoding.TagLen
	nonceLen  = encoding.NonceLen
	lenLen    = encoding.LenLen
	scalarLen = encoding.ScalarLen
	hashLen   = encoding.HashLen
)

// MaxExtraBytes bounds the caller-supplied extra/clear payload carried
// inside an envelope, guarding length fields read off the wire against
// integer overflow and unbounded allocation.
const MaxExtraBytes = 1 << 20

// ErrMessageLength is returned when a wire buffer's length does not match
// what its declared or fixed field widths require.
var ErrMessageLength = errors.New("message: wrong wire length")

// ErrOverflow is returned when a decoded length field exceeds MaxExtraBytes.
var ErrOverflow = errors.New("message: length field out of range")

// Blob is the Opaque_Blob envelope schema: a public nonce, the ciphertext
// of the client's keypair, the server's public key and the caller's secret
// extra payload (all XORed under a pad derived from rw), a separate and
// genuinely optional cleartext associated-data field, and the HMAC tag
// covering nonce‖SecretCT‖Clear. The caller's extra payload lives inside
// SecretCT, not Clear: spec.md §4.3 requires the server to only ever hold
// it as ciphertext.
type Blob struct {
	Nonce    []byte // [HashLen]
	SecretCT []byte // [SecretLen+extraLen], XOR ciphertext of (p_u, P_u, P_s, extra)
	Clear    []byte // [len(Clear)], authenticated but sealed in the clear
	Tag      []byte // [TagLen]
}

// SecretLen is the fixed length of the envelope's encrypted payload before
// any caller-supplied extra bytes: p_u ‖ P_u ‖ P_s.
const SecretLen = scalarLen + pointLen + pointLen

// Serialize returns the byte encoding of Blob.
func (b *Blob) Serialize() []byte {
	return encoding.Concat(b.Nonce, b.SecretCT, b.Clear, b.Tag)
}

// BlobSize returns the total serialized size of a Blob whose SecretCT
// carries extraLen bytes of sealed extra payload beyond the fixed
// SecretLen base and whose Clear field is empty, the layout every
// top-level message in this package uses.
func BlobSize(extraLen int) int {
	return hashLen + SecretLen + extraLen + tagLen
}

// ParseBlob parses a Blob out of a buffer known to carry extraLen bytes of
// sealed extra payload inside SecretCT and no separate Clear payload.
func ParseBlob(b []byte, extraLen int) (*Blob, error) {
	if len(b) != BlobSize(extraLen) {
		return nil, ErrMessageLength
	}

	off := 0
	nonce := b[off : off+hashLen]
	off += hashLen
	secretTotal := SecretLen + extraLen
	secretCT := b[off : off+secretTotal]
	off += secretTotal
	tag := b[off : off+tagLen]

	return &Blob{Nonce: nonce, SecretCT: secretCT, Clear: nil, Tag: tag}, nil
}

// UserRecord is the Opaque_UserRecord server-stored record: the OPRF key,
// the server's long-term DH keypair, the user's long-term DH public key
// (duplicated outside the envelope so the server can run 3-DH without
// opening it), and the sealed envelope.
type UserRecord struct {
	Ks       []byte // [ScalarLen] OPRF key
	Ps       []byte // [ScalarLen] server DH secret
	Pu       []byte // [PointLen] user DH public, duplicated from the envelope
	PsPublic []byte // [PointLen] server DH public
	ExtraLen uint64 // length of the sealed extra payload inside Envelope.SecretCT
	Envelope *Blob
}

// recordHeaderLen is the fixed-size prefix of UserRecord before the
// embedded Blob.
const recordHeaderLen = scalarLen + scalarLen + pointLen + pointLen + lenLen

// Serialize returns the byte encoding of UserRecord.
func (r *UserRecord) Serialize() []byte {
	return encoding.Concat(r.Ks, r.Ps, r.Pu, r.PsPublic, encoding.PutUint64(r.ExtraLen), r.Envelope.Serialize())
}

// ParseUserRecord parses a UserRecord from its serialized form.
func ParseUserRecord(b []byte) (*UserRecord, error) {
	if len(b) < recordHeaderLen {
		return nil, ErrMessageLength
	}

	off := 0
	ks := b[off : off+scalarLen]
	off += scalarLen
	ps := b[off : off+scalarLen]
	off += scalarLen
	pu := b[off : off+pointLen]
	off += pointLen
	psPub := b[off : off+pointLen]
	off += pointLen
	extraLen := encoding.Uint64(b[off : off+lenLen])
	off += lenLen

	if extraLen > MaxExtraBytes {
		return nil, ErrOverflow
	}

	blob, err := ParseBlob(b[off:], int(extraLen))
	if err != nil {
		return nil, err
	}

	return &UserRecord{Ks: ks, Ps: ps, Pu: pu, PsPublic: psPub, ExtraLen: extraLen, Envelope: blob}, nil
}

// UserSession is the Opaque_UserSession flight-1 message: the blinded
// password, the client's ephemeral DH public share, and its nonce.
type UserSession struct {
	Alpha  []byte // [PointLen]
	Xu     []byte // [PointLen]
	NonceU []byte // [NonceLen]
}

// UserSessionLen is the fixed wire length of UserSession.
const UserSessionLen = pointLen + pointLen + nonceLen

// Serialize returns the byte encoding of UserSession.
func (m *UserSession) Serialize() []byte {
	return encoding.Concat(m.Alpha, m.Xu, m.NonceU)
}

// ParseUserSession parses a UserSession from its serialized form.
func ParseUserSession(b []byte) (*UserSession, error) {
	if len(b) != UserSessionLen {
		return nil, ErrMessageLength
	}

	return &UserSession{Alpha: b[0:pointLen], Xu: b[pointLen : 2*pointLen], NonceU: b[2*pointLen:]}, nil
}

// ServerSession is the Opaque_ServerSession flight-2 message: the OPRF
// evaluation, the server's ephemeral DH public share and nonce, the server
// authentication tag, and the user's sealed envelope (carried through
// exactly as stored in the record).
type ServerSession struct {
	Beta     []byte // [PointLen]
	Xs       []byte // [PointLen]
	NonceS   []byte // [NonceLen]
	Auth     []byte // [TagLen]
	ExtraLen uint64
	Envelope *Blob
}

// serverSessionHeaderLen is the fixed-size prefix of ServerSession before
// the embedded Blob.
const serverSessionHeaderLen = pointLen + pointLen + nonceLen + tagLen + lenLen

// Serialize returns the byte encoding of ServerSession.
func (m *ServerSession) Serialize() []byte {
	return encoding.Concat(m.Beta, m.Xs, m.NonceS, m.Auth, encoding.PutUint64(m.ExtraLen), m.Envelope.Serialize())
}

// ParseServerSession parses a ServerSession from its serialized form.
func ParseServerSession(b []byte) (*ServerSession, error) {
	if len(b) < serverSessionHeaderLen {
		return nil, ErrMessageLength
	}

	off := 0
	beta := b[off : off+pointLen]
	off += pointLen
	xs := b[off : off+pointLen]
	off += pointLen
	nonceS := b[off : off+nonceLen]
	off += nonceLen
	auth := b[off : off+tagLen]
	off += tagLen
	extraLen := encoding.Uint64(b[off : off+lenLen])
	off += lenLen

	if extraLen > MaxExtraBytes {
		return nil, ErrOverflow
	}

	blob, err := ParseBlob(b[off:], int(extraLen))
	if err != nil {
		return nil, err
	}

	return &ServerSession{Beta: beta, Xs: xs, NonceS: nonceS, Auth: auth, ExtraLen: extraLen, Envelope: blob}, nil
}

// UserAuth is the Opaque_UserAuth flight-3 message: the client's
// authentication tag, the last value exchanged before the server releases
// the session keys it has already derived.
type UserAuth struct {
	AuthU []byte // [TagLen]
}

// Serialize returns the byte encoding of UserAuth.
func (m *UserAuth) Serialize() []byte {
	return append([]byte(nil), m.AuthU...)
}

// ParseUserAuth parses a UserAuth from its serialized form.
func ParseUserAuth(b []byte) (*UserAuth, error) {
	if len(b) != tagLen {
		return nil, ErrMessageLength
	}

	return &UserAuth{AuthU: b}, nil
}

// RegisterInit is the Opaque_RegisterInit private-registration message
// sent from the user to the server to start a private registration: the
// blinded password alone.
type RegisterInit struct {
	Alpha []byte // [PointLen]
}

// Serialize returns the byte encoding of RegisterInit.
func (m *RegisterInit) Serialize() []byte {
	return append([]byte(nil), m.Alpha...)
}

// ParseRegisterInit parses a RegisterInit from its serialized form.
func ParseRegisterInit(b []byte) (*RegisterInit, error) {
	if len(b) != pointLen {
		return nil, ErrMessageLength
	}

	return &RegisterInit{Alpha: b}, nil
}

// RegisterUpload is the private-registration message the user sends back
// to the server after sealing its envelope: the user's long-term DH
// public key, duplicated outside the envelope, and the envelope itself.
type RegisterUpload struct {
	Pu       []byte // [PointLen]
	ExtraLen uint64
	Envelope *Blob
}

// registerUploadHeaderLen is the fixed-size prefix of RegisterUpload
// before the embedded Blob.
const registerUploadHeaderLen = pointLen + lenLen

// Serialize returns the byte encoding of RegisterUpload.
func (m *RegisterUpload) Serialize() []byte {
	return encoding.Concat(m.Pu, encoding.PutUint64(m.ExtraLen), m.Envelope.Serialize())
}

// ParseRegisterUpload parses a RegisterUpload from its serialized form.
func ParseRegisterUpload(b []byte) (*RegisterUpload, error) {
	if len(b) < registerUploadHeaderLen {
		return nil, ErrMessageLength
	}

	pu := b[0:pointLen]
	extraLen := encoding.Uint64(b[pointLen : pointLen+lenLen])

	if extraLen > MaxExtraBytes {
		return nil, ErrOverflow
	}

	blob, err := ParseBlob(b[pointLen+lenLen:], int(extraLen))
	if err != nil {
		return nil, err
	}

	return &RegisterUpload{Pu: pu, ExtraLen: extraLen, Envelope: blob}, nil
}

// RegisterPub is the Opaque_RegisterPub private-registration message sent
// from the server to the user: the OPRF evaluation and the server's DH
// public key.
type RegisterPub struct {
	Beta []byte // [PointLen]
	Ps   []byte // [PointLen]
}

// RegisterPubLen is the fixed wire length of RegisterPub.
const RegisterPubLen = pointLen + pointLen

// Serialize returns the byte encoding of RegisterPub.
func (m *RegisterPub) Serialize() []byte {
	return encoding.Concat(m.Beta, m.Ps)
}

// ParseRegisterPub parses a RegisterPub from its serialized form.
func ParseRegisterPub(b []byte) (*RegisterPub, error) {
	if len(b) != RegisterPubLen {
		return nil, ErrMessageLength
	}

	return &RegisterPub{Beta: b[0:pointLen], Ps: b[pointLen:]}, nil
}

// Keys is Opaque_Keys: the session-local key material the AKE derives
// from its 3-DH output. Sk is the shared session key, Km2/Km3 key the two
// authentication tags, and Ke2/Ke3 are exported for the caller's own use.
type Keys struct {
	Sk, Km2, Km3, Ke2, Ke3 []byte
}
