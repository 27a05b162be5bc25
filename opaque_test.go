// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"bytes"
	"errors"
	"testing"

	opaque "github.com/quietkey/opaque"
)

func TestTrustedRegistrationThenLogin(t *testing.T) {
	password := []byte("correct horse battery staple")
	appKey := []byte("some optional key contributed to the opaque protocol")

	record, regExportKey, regRwd, err := opaque.RegisterTrusted(password, appKey, []byte("metadata"))
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	ids := opaque.Identities{Client: []byte("alice"), Server: []byte("example.org")}
	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit(password)
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	serverState, resp, err := opaque.LoginEvaluate(record, req, ids, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	userAuth, clientResult, loginExportKey, extra, loginRwd, err := opaque.LoginFinalize(clientState, resp, appKey, ids, info)
	if err != nil {
		t.Fatalf("LoginFinalize: %v", err)
	}

	if !bytes.Equal(regExportKey, loginExportKey) {
		t.Fatal("export key from registration does not match export key from login")
	}

	if !bytes.Equal(regRwd, loginRwd) {
		t.Fatal("rwd from registration does not match rwd from login")
	}

	if !bytes.Equal(extra, []byte("metadata")) {
		t.Fatal("login did not recover the extra payload sealed at registration")
	}

	serverResult, err := opaque.LoginVerify(serverState, userAuth)
	if err != nil {
		t.Fatalf("LoginVerify: %v", err)
	}

	if !bytes.Equal(clientResult.Sk, serverResult.Sk) {
		t.Fatal("client and server disagree on the shared session key")
	}

	if !bytes.Equal(clientResult.Ke2, serverResult.Ke2) || !bytes.Equal(clientResult.Ke3, serverResult.Ke3) {
		t.Fatal("client and server disagree on the exported keys")
	}
}

func TestTrustedRegistrationLoginFailsWithWrongAppKey(t *testing.T) {
	password := []byte("correct horse battery staple")
	appKey := []byte("some optional key contributed to the opaque protocol")

	record, _, _, err := opaque.RegisterTrusted(password, appKey, nil)
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	ids := opaque.Identities{}
	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit(password)
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	_, resp, err := opaque.LoginEvaluate(record, req, ids, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	if _, _, _, _, _, err := opaque.LoginFinalize(clientState, resp, []byte("a different key"), ids, info); !hasCode(err, opaque.ErrEnvelopeAuth) {
		t.Fatalf("got %v, want ErrEnvelopeAuth", err)
	}
}

func TestPrivateRegistrationThenLogin(t *testing.T) {
	password := []byte("hunter2")

	clientReg, initMsg := opaque.RegisterInit(password)

	serverReg, pub, err := opaque.RegisterRespond(initMsg)
	if err != nil {
		t.Fatalf("RegisterRespond: %v", err)
	}

	upload, regExportKey, regRwd, err := opaque.RegisterUpload(clientReg, pub, nil, nil)
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}

	record := opaque.RegisterStore(serverReg, upload)

	ids := opaque.Identities{}
	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit(password)
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	serverState, resp, err := opaque.LoginEvaluate(record, req, ids, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	userAuth, _, loginExportKey, _, loginRwd, err := opaque.LoginFinalize(clientState, resp, nil, ids, info)
	if err != nil {
		t.Fatalf("LoginFinalize: %v", err)
	}

	if !bytes.Equal(regExportKey, loginExportKey) {
		t.Fatal("export key from private registration does not match export key from login")
	}

	if !bytes.Equal(regRwd, loginRwd) {
		t.Fatal("rwd from private registration does not match rwd from login")
	}

	if _, err := opaque.LoginVerify(serverState, userAuth); err != nil {
		t.Fatalf("LoginVerify: %v", err)
	}
}

func TestLoginFailsWithWrongPassword(t *testing.T) {
	record, _, _, err := opaque.RegisterTrusted([]byte("the real password"), nil, nil)
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	ids := opaque.Identities{}
	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit([]byte("a wrong guess"))
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	_, resp, err := opaque.LoginEvaluate(record, req, ids, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	if _, _, _, _, _, err := opaque.LoginFinalize(clientState, resp, nil, ids, info); !hasCode(err, opaque.ErrEnvelopeAuth) {
		t.Fatalf("got %v, want ErrEnvelopeAuth", err)
	}
}

func TestLoginFailsOnTamperedServerAuth(t *testing.T) {
	password := []byte("correct horse battery staple")
	record, _, _, err := opaque.RegisterTrusted(password, nil, nil)
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	ids := opaque.Identities{}
	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit(password)
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	_, resp, err := opaque.LoginEvaluate(record, req, ids, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	resp.Auth[0] ^= 0xFF

	if _, _, _, _, _, err := opaque.LoginFinalize(clientState, resp, nil, ids, info); !hasCode(err, opaque.ErrServerAuth) {
		t.Fatalf("got %v, want ErrServerAuth", err)
	}
}

func TestLoginFailsOnTamperedClientAuth(t *testing.T) {
	password := []byte("correct horse battery staple")
	record, _, _, err := opaque.RegisterTrusted(password, nil, nil)
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	ids := opaque.Identities{}
	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit(password)
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	serverState, resp, err := opaque.LoginEvaluate(record, req, ids, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	userAuth, _, _, _, _, err := opaque.LoginFinalize(clientState, resp, nil, ids, info)
	if err != nil {
		t.Fatalf("LoginFinalize: %v", err)
	}

	userAuth.AuthU[0] ^= 0xFF

	if _, err := opaque.LoginVerify(serverState, userAuth); !hasCode(err, opaque.ErrUserAuth) {
		t.Fatalf("got %v, want ErrUserAuth", err)
	}
}

func TestMismatchedIdentitiesFailAuthentication(t *testing.T) {
	password := []byte("correct horse battery staple")
	record, _, _, err := opaque.RegisterTrusted(password, nil, nil)
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	info := opaque.AppInfo{}

	clientState, req, err := opaque.LoginInit(password)
	if err != nil {
		t.Fatalf("LoginInit: %v", err)
	}

	serverIDs := opaque.Identities{Client: []byte("alice"), Server: []byte("example.org")}
	clientIDs := opaque.Identities{Client: []byte("alice"), Server: []byte("impostor.example")}

	_, resp, err := opaque.LoginEvaluate(record, req, serverIDs, info)
	if err != nil {
		t.Fatalf("LoginEvaluate: %v", err)
	}

	if _, _, _, _, _, err := opaque.LoginFinalize(clientState, resp, nil, clientIDs, info); !hasCode(err, opaque.ErrServerAuth) {
		t.Fatalf("got %v, want ErrServerAuth", err)
	}
}

func TestExtraPayloadIsNotStoredInCleartext(t *testing.T) {
	password := []byte("correct horse battery staple")
	secretExtra := []byte("some additional secret data stored in the blob")

	record, _, _, err := opaque.RegisterTrusted(password, nil, secretExtra)
	if err != nil {
		t.Fatalf("RegisterTrusted: %v", err)
	}

	if bytes.Contains(record.Envelope.SecretCT, secretExtra) || bytes.Contains(record.Envelope.Clear, secretExtra) {
		t.Fatal("extra payload is recoverable without rw: confidentiality broken")
	}
}

func hasCode(err error, code opaque.ErrorCode) bool {
	var e *opaque.Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Code == code
}
