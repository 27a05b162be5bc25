// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"github.com/quietkey/opaque/internal/envelope"
	"github.com/quietkey/opaque/internal/group"
	"github.com/quietkey/opaque/internal/oprf"
	"github.com/quietkey/opaque/internal/secret"
	"github.com/quietkey/opaque/message"
)

// RegisterTrusted creates a user record directly from a plaintext
// password, the trusted registration path of spec.md §4.3 for servers
// that already hold the password, such as an offline bulk import. It
// performs the same OPRF blind/evaluate/finalize round trip as the
// private flow, only locally and against a password the caller already
// has in hand. key is the optional application-supplied key spec.md §4.1
// allows contributing to the OPRF's Unblind step; it may be nil.
func RegisterTrusted(password, key, extra []byte) (record *message.UserRecord, exportKey, rwd []byte, err error) {
	if len(password) == 0 {
		return nil, nil, nil, newError(ErrBadArg, "password must not be empty", nil)
	}

	ks := group.RandomScalar()
	blind, alpha := oprf.Blind(password)

	beta, err := oprf.Evaluate(ks, alpha)
	if err != nil {
		return nil, nil, nil, newError(ErrInvalidPoint, "evaluating trusted OPRF", err)
	}

	rw, err := oprf.Finalize(password, blind, beta, key)
	if err != nil {
		return nil, nil, nil, newError(ErrPwHashOOM, "stretching trusted rw", err)
	}
	defer secret.Wipe(rw)

	rwd, err = oprf.DeriveRwd(rw)
	if err != nil {
		return nil, nil, nil, newError(ErrBadArg, "deriving rwd", err)
	}

	record, exportKey, err = sealRecord(rw, extra)
	if err != nil {
		return nil, nil, nil, err
	}

	ks2 := group.EncodeScalar(ks)
	record.Ks = ks2

	return record, exportKey, rwd, nil
}

// sealRecord generates a fresh long-term client/server DH keypair pair,
// seals it into an envelope under rw, and assembles the record shell
// minus the OPRF key, which RegisterTrusted fills in afterwards. extra is
// sealed inside the envelope's encrypted secret
// payload, never left in the clear.
func sealRecord(rw, extra []byte) (*message.UserRecord, []byte, error) {
	pu := group.RandomScalar()
	Pu := group.EncodePoint(group.ScalarBaseMult(pu))
	ps := group.RandomScalar()
	Ps := group.EncodePoint(group.ScalarBaseMult(ps))

	blob, exportKey, err := envelope.Seal(rw, group.EncodeScalar(pu), Pu, Ps, extra, nil)
	if err != nil {
		return nil, nil, newError(ErrBadArg, "sealing envelope", err)
	}

	record := &message.UserRecord{
		Ps:       group.EncodeScalar(ps),
		Pu:       Pu,
		PsPublic: Ps,
		ExtraLen: uint64(len(extra)),
		Envelope: blob,
	}

	return record, exportKey, nil
}

// ClientRegistration is the state a client carries between RegisterInit
// and RegisterUpload during a private registration.
type ClientRegistration struct {
	password []byte
	blind    *group.Scalar
}

// RegisterInit begins a private registration: the client blinds its
// password and sends the result to the server. Corresponds to
// private_init_usr_start.
func RegisterInit(password []byte) (*ClientRegistration, *message.RegisterInit) {
	blind, alpha := oprf.Blind(password)

	return &ClientRegistration{password: password, blind: blind}, &message.RegisterInit{Alpha: alpha}
}

// ServerRegistration is the state a server carries between RegisterRespond
// and RegisterStore during a private registration.
type ServerRegistration struct {
	Ps []byte
	Ks []byte
}

// RegisterRespond answers a client's RegisterInit: the server mints a
// fresh OPRF key and long-term DH keypair, evaluates the blinded
// password, and returns the public half to the client while holding the
// secret half for RegisterStore. Corresponds to private_init_srv_respond.
func RegisterRespond(req *message.RegisterInit) (*ServerRegistration, *message.RegisterPub, error) {
	ks := group.RandomScalar()

	beta, err := oprf.Evaluate(ks, req.Alpha)
	if err != nil {
		return nil, nil, newError(ErrInvalidPoint, "evaluating registration OPRF", err)
	}

	ps := group.RandomScalar()
	Ps := group.EncodePoint(group.ScalarBaseMult(ps))

	sec := &ServerRegistration{Ps: group.EncodeScalar(ps), Ks: group.EncodeScalar(ks)}
	pub := &message.RegisterPub{Beta: beta, Ps: Ps}

	return sec, pub, nil
}

// RegisterUpload finishes the client's half of a private registration: it
// unblinds the server's evaluation into rw, generates its own long-term DH
// keypair, seals the envelope, and returns the upload for the server plus
// its export key and rwd. Corresponds to private_init_usr_respond. key is
// the optional application-supplied key spec.md §4.1 allows contributing
// to the OPRF's Unblind step; it may be nil.
func RegisterUpload(reg *ClientRegistration, pub *message.RegisterPub, key, extra []byte) (upload *message.RegisterUpload, exportKey, rwd []byte, err error) {
	if _, err := group.DecodePoint(pub.Beta); err != nil {
		return nil, nil, nil, newError(ErrInvalidPoint, "decoding registration OPRF evaluation", err)
	}

	rw, err := oprf.Finalize(reg.password, reg.blind, pub.Beta, key)
	if err != nil {
		return nil, nil, nil, newError(ErrPwHashOOM, "stretching registration rw", err)
	}
	defer secret.Wipe(rw)

	rwd, err = oprf.DeriveRwd(rw)
	if err != nil {
		return nil, nil, nil, newError(ErrBadArg, "deriving rwd", err)
	}

	pu := group.RandomScalar()
	Pu := group.EncodePoint(group.ScalarBaseMult(pu))

	blob, exportKey, err := envelope.Seal(rw, group.EncodeScalar(pu), Pu, pub.Ps, extra, nil)
	if err != nil {
		return nil, nil, nil, newError(ErrBadArg, "sealing registration envelope", err)
	}

	upload = &message.RegisterUpload{Pu: Pu, ExtraLen: uint64(len(extra)), Envelope: blob}

	return upload, exportKey, rwd, nil
}

// RegisterStore finishes the server's half of a private registration,
// folding the client's upload together with the secret state RegisterRespond
// held onto into the final stored record. Corresponds to
// private_init_srv_finish.
func RegisterStore(sec *ServerRegistration, upload *message.RegisterUpload) *message.UserRecord {
	return &message.UserRecord{
		Ks:       sec.Ks,
		Ps:       sec.Ps,
		Pu:       upload.Pu,
		PsPublic: derivePublic(sec.Ps),
		ExtraLen: upload.ExtraLen,
		Envelope: upload.Envelope,
	}
}

// derivePublic recovers the server's long-term public key from the secret
// scalar RegisterRespond generated and ServerRegistration carried. A decode
// failure here means this package's own RandomScalar/EncodeScalar round
// trip is broken, not that untrusted input reached this function, so it
// panics rather than silently returning a nil public key into the stored
// record.
func derivePublic(scalarBytes []byte) []byte {
	s, err := group.DecodeScalar(scalarBytes)
	if err != nil {
		panic(newError(ErrInvalidPoint, "decoding server secret generated by RegisterRespond", err))
	}

	return group.EncodePoint(group.ScalarBaseMult(s))
}
