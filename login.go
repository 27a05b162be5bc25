// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto/rand"

	"github.com/quietkey/opaque/internal/ake"
	"github.com/quietkey/opaque/internal/encoding"
	"github.com/quietkey/opaque/internal/envelope"
	"github.com/quietkey/opaque/internal/group"
	"github.com/quietkey/opaque/internal/oprf"
	"github.com/quietkey/opaque/internal/secret"
	"github.com/quietkey/opaque/message"
)

// ClientLogin is the state a client carries between LoginInit and
// LoginFinalize.
type ClientLogin struct {
	password []byte
	blind    *group.Scalar
	alpha    []byte
	xu       *group.Scalar
	Xu       []byte
	nonceU   []byte
}

// LoginInit begins a login: the client blinds its password and generates
// a fresh ephemeral DH keypair and nonce. Corresponds to
// session_usr_start.
func LoginInit(password []byte) (*ClientLogin, *message.UserSession, error) {
	if len(password) == 0 {
		return nil, nil, newError(ErrBadArg, "password must not be empty", nil)
	}

	blind, alpha := oprf.Blind(password)
	xu, Xu := ake.NewEphemeral()

	nonceU := make([]byte, encoding.NonceLen)
	if _, err := rand.Read(nonceU); err != nil {
		return nil, nil, newError(ErrBadArg, "sampling client nonce", err)
	}

	state := &ClientLogin{password: password, blind: blind, alpha: alpha, xu: xu, Xu: Xu, nonceU: nonceU}
	msg := &message.UserSession{Alpha: alpha, Xu: Xu, NonceU: nonceU}

	return state, msg, nil
}

// ServerLogin is the state a server carries between LoginEvaluate and
// LoginVerify.
type ServerLogin struct {
	session *ake.Session
	keys    *message.Keys
}

// absorbFlight1 feeds the transcript everything both sides know once
// flight 1 has been sent, in spec.md §4.5's mandated order: alpha ‖ nonceU
// ‖ info1 ‖ Xu. The variable-length application payload is framed with
// encoding.EncodeVector16 so that, say, a one-byte info1 followed by an
// empty Xu can never hash the same as an empty info1 followed by a
// one-byte Xu. The two parties' identities are not part of this
// transcript: spec.md §4.5 folds them into the AKE key-derivation info
// hash instead, via ake.ComputeInfo.
func absorbFlight1(session *ake.Session, info AppInfo, alpha, xuPub, nonceU []byte) {
	session.Absorb(alpha, nonceU, encoding.EncodeVector16(info.Info1), xuPub)
}

// absorbFlight2 extends the transcript with flight 2's contents, in
// spec.md §4.5's order: beta ‖ envelope-bytes ‖ nonceS ‖ info2 ‖ Xs ‖
// einfo2. envelope is the serialized Blob the server returns alongside
// beta, which spec.md requires in the transcript even though it is never
// absorbed anywhere else.
func absorbFlight2(session *ake.Session, info AppInfo, beta, envelopeBytes, xsPub, nonceS []byte) {
	session.Absorb(beta, envelopeBytes, nonceS, encoding.EncodeVector16(info.Info2), xsPub, encoding.EncodeVector16(info.EInfo2))
}

// absorbFlight3 extends the transcript with flight 3's application
// payload, the save point spec.md §4.5 requires before authU is computed.
// The server's own auth tag is not part of the transcript: spec.md §4.5
// only ever appends info3 ‖ einfo3 here.
func absorbFlight3(session *ake.Session, info AppInfo) {
	session.Absorb(encoding.EncodeVector16(info.Info3), encoding.EncodeVector16(info.EInfo3))
}

// LoginEvaluate answers a client's UserSession: the server evaluates the
// OPRF, generates its own ephemeral DH keypair and nonce, runs the
// triple-DH key schedule against the record's long-term keys, and
// authenticates the handshake so far with a MAC under km2. Corresponds to
// session_srv.
func LoginEvaluate(record *message.UserRecord, req *message.UserSession, ids Identities, info AppInfo) (*ServerLogin, *message.ServerSession, error) {
	ks, err := group.DecodeScalar(record.Ks)
	if err != nil {
		return nil, nil, newError(ErrInvalidPoint, "decoding stored OPRF key", err)
	}

	beta, err := oprf.Evaluate(ks, req.Alpha)
	if err != nil {
		return nil, nil, newError(ErrInvalidPoint, "evaluating login OPRF", err)
	}

	ps, err := group.DecodeScalar(record.Ps)
	if err != nil {
		return nil, nil, newError(ErrInvalidPoint, "decoding stored server secret", err)
	}

	xs, Xs := ake.NewEphemeral()

	nonceS := make([]byte, encoding.NonceLen)
	if _, err := rand.Read(nonceS); err != nil {
		return nil, nil, newError(ErrBadArg, "sampling server nonce", err)
	}

	ikm, err := ake.ServerIKM(xs, req.Xu, ps, record.Pu)
	if err != nil {
		return nil, nil, newError(ErrInvalidPoint, "computing server triple-DH", err)
	}
	defer secret.Wipe(ikm)

	akeInfo := ake.ComputeInfo(req.NonceU, nonceS, ids.Client, ids.Server)

	keys, err := ake.DeriveKeys(ikm, akeInfo)
	if err != nil {
		return nil, nil, newError(ErrBadArg, "deriving session keys", err)
	}

	session := ake.NewSession()
	absorbFlight1(session, info, req.Alpha, req.Xu, req.NonceU)
	absorbFlight2(session, info, beta, record.Envelope.Serialize(), Xs, nonceS)
	auth := session.Tag(keys.Km2)

	// The save point: clone here, before absorbing the info3/einfo3 pair
	// that only matters for authU. The clone is extended right away and kept
	// in ServerLogin for LoginVerify; session itself stays at the shorter
	// transcript that auth covers.
	final := session.Clone()
	absorbFlight3(final, info)

	state := &ServerLogin{session: final, keys: keys}
	resp := &message.ServerSession{
		Beta:     beta,
		Xs:       Xs,
		NonceS:   nonceS,
		Auth:     auth,
		ExtraLen: record.ExtraLen,
		Envelope: record.Envelope,
	}

	return state, resp, nil
}

// LoginFinalize consumes the server's ServerSession: it unblinds the OPRF
// result into rw, opens the envelope to recover the client's long-term
// keypair, the server's long-term public key, and the sealed extra
// payload, runs the matching triple-DH key schedule, and verifies the
// server's auth tag before producing its own authU tag. Corresponds to
// session_usr_finish. key is the same optional application-supplied key
// the matching registration call used; it may be nil.
func LoginFinalize(state *ClientLogin, resp *message.ServerSession, key []byte, ids Identities, info AppInfo) (authMsg *message.UserAuth, result *SessionResult, exportKey, extra, rwd []byte, err error) {
	if _, err := group.DecodePoint(resp.Beta); err != nil {
		return nil, nil, nil, nil, nil, newError(ErrInvalidPoint, "decoding login OPRF evaluation", err)
	}

	rw, err := oprf.Finalize(state.password, state.blind, resp.Beta, key)
	if err != nil {
		return nil, nil, nil, nil, nil, newError(ErrPwHashOOM, "stretching login rw", err)
	}
	defer secret.Wipe(rw)

	rwd, err = oprf.DeriveRwd(rw)
	if err != nil {
		return nil, nil, nil, nil, nil, newError(ErrBadArg, "deriving rwd", err)
	}

	pu, _, pubS, extra, exportKey, err := envelope.Open(rw, resp.Envelope)
	if err != nil {
		return nil, nil, nil, nil, nil, newError(ErrEnvelopeAuth, "opening envelope", err)
	}
	defer secret.Wipe(pu)

	puScalar, err := group.DecodeScalar(pu)
	if err != nil {
		return nil, nil, nil, nil, nil, newError(ErrInvalidPoint, "decoding recovered client secret", err)
	}

	ikm, err := ake.ClientIKM(state.xu, resp.Xs, puScalar, pubS)
	if err != nil {
		return nil, nil, nil, nil, nil, newError(ErrInvalidPoint, "computing client triple-DH", err)
	}
	defer secret.Wipe(ikm)

	akeInfo := ake.ComputeInfo(state.nonceU, resp.NonceS, ids.Client, ids.Server)

	keys, err := ake.DeriveKeys(ikm, akeInfo)
	if err != nil {
		return nil, nil, nil, nil, nil, newError(ErrBadArg, "deriving session keys", err)
	}

	session := ake.NewSession()
	absorbFlight1(session, info, state.alpha, state.Xu, state.nonceU)
	absorbFlight2(session, info, resp.Beta, resp.Envelope.Serialize(), resp.Xs, resp.NonceS)

	if !session.Verify(keys.Km2, resp.Auth) {
		return nil, nil, nil, nil, nil, newError(ErrServerAuth, "server authentication tag did not verify", nil)
	}

	absorbFlight3(session, info)
	authU := session.Tag(keys.Km3)

	result = &SessionResult{Sk: keys.Sk, Ke2: keys.Ke2, Ke3: keys.Ke3}

	return &message.UserAuth{AuthU: authU}, result, exportKey, extra, rwd, nil
}

// LoginVerify checks the client's final authentication tag against the
// transcript and key schedule LoginEvaluate computed, completing the
// handshake on the server's side. Corresponds to session_server_auth.
func LoginVerify(state *ServerLogin, msg *message.UserAuth) (*SessionResult, error) {
	if !state.session.Verify(state.keys.Km3, msg.AuthU) {
		return nil, newError(ErrUserAuth, "client authentication tag did not verify", nil)
	}

	return &SessionResult{Sk: state.keys.Sk, Ke2: state.keys.Ke2, Ke3: state.keys.Ke3}, nil
}
