// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package secret_test

import (
	"testing"

	"github.com/quietkey/opaque/internal/secret"
)

func TestReleaseZeroises(t *testing.T) {
	b := secret.New(16)
	buf := b.Bytes()
	copy(buf, []byte("sensitive material"))

	b.Release()

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("byte %d = %d after Release, want 0", i, v)
		}
	}
}

func TestReleaseIsIdempotentAndNilSafe(t *testing.T) {
	b := secret.New(8)
	b.Release()
	b.Release()

	var nilBytes *secret.Bytes
	nilBytes.Release()

	if nilBytes.Len() != 0 {
		t.Fatal("Len on a nil *Bytes should be 0")
	}
}

func TestWipe(t *testing.T) {
	buf := []byte("top secret")
	secret.Wipe(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("byte %d = %d after Wipe, want 0", i, v)
		}
	}
}
