// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"bytes"
	"testing"

	"github.com/quietkey/opaque/internal/ake"
	"github.com/quietkey/opaque/internal/encoding"
	"github.com/quietkey/opaque/internal/kdf"
)

// TestAbsorbFlight1MatchesSpecByteLayout pins absorbFlight1's transcript
// contribution against a hand-computed concatenation in spec.md §4.5's
// mandated order: alpha ‖ nonceU ‖ info1 ‖ Xu. This is the only place in
// the test suite that would catch a cyclic-rotation or omission bug in the
// flight absorption helpers, since both sides of a handshake call the same
// helpers and would silently agree on a nonconformant transcript otherwise.
func TestAbsorbFlight1MatchesSpecByteLayout(t *testing.T) {
	alpha := bytes.Repeat([]byte{0x01}, 32)
	xu := bytes.Repeat([]byte{0x02}, 32)
	nonceU := bytes.Repeat([]byte{0x03}, 32)
	info1 := []byte("application info1")
	key := bytes.Repeat([]byte{0xAB}, 32)

	want := kdf.NewMAC().Tag(key, encoding.Concat(alpha, nonceU, encoding.EncodeVector16(info1), xu))

	session := ake.NewSession()
	absorbFlight1(session, AppInfo{Info1: info1}, alpha, xu, nonceU)
	got := session.Tag(key)

	if !bytes.Equal(got, want) {
		t.Fatal("absorbFlight1 does not absorb alpha, nonceU, info1, Xu in that order")
	}
}

// TestAbsorbFlight2MatchesSpecByteLayout pins absorbFlight2's contribution:
// beta ‖ envelope-bytes ‖ nonceS ‖ info2 ‖ Xs ‖ einfo2, including the
// serialized envelope spec.md §4.5 requires in the transcript.
func TestAbsorbFlight2MatchesSpecByteLayout(t *testing.T) {
	beta := bytes.Repeat([]byte{0x04}, 32)
	envelopeBytes := bytes.Repeat([]byte{0x05}, 64)
	xs := bytes.Repeat([]byte{0x06}, 32)
	nonceS := bytes.Repeat([]byte{0x07}, 32)
	info2 := []byte("application info2")
	einfo2 := []byte("encrypted info2")
	key := bytes.Repeat([]byte{0xCD}, 32)

	want := kdf.NewMAC().Tag(key, encoding.Concat(
		beta, envelopeBytes, nonceS, encoding.EncodeVector16(info2), xs, encoding.EncodeVector16(einfo2)))

	session := ake.NewSession()
	absorbFlight2(session, AppInfo{Info2: info2, EInfo2: einfo2}, beta, envelopeBytes, xs, nonceS)
	got := session.Tag(key)

	if !bytes.Equal(got, want) {
		t.Fatal("absorbFlight2 does not absorb beta, envelope, nonceS, info2, Xs, einfo2 in that order")
	}
}

// TestAbsorbFlight3MatchesSpecByteLayout pins absorbFlight3's contribution
// to info3 ‖ einfo3 only: spec.md §4.5 never folds the server's own auth
// tag into the transcript at this step.
func TestAbsorbFlight3MatchesSpecByteLayout(t *testing.T) {
	info3 := []byte("application info3")
	einfo3 := []byte("encrypted info3")
	key := bytes.Repeat([]byte{0xEF}, 32)

	want := kdf.NewMAC().Tag(key, encoding.Concat(encoding.EncodeVector16(info3), encoding.EncodeVector16(einfo3)))

	session := ake.NewSession()
	absorbFlight3(session, AppInfo{Info3: info3, EInfo3: einfo3})
	got := session.Tag(key)

	if !bytes.Equal(got, want) {
		t.Fatal("absorbFlight3 does not absorb info3, einfo3 only, in that order")
	}
}
