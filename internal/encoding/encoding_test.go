// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding_test

import (
	"bytes"
	"testing"

	"github.com/quietkey/opaque/internal/encoding"
)

func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 32, ^uint64(0)} {
		if got := encoding.Uint64(encoding.PutUint64(v)); got != v {
			t.Fatalf("Uint64(PutUint64(%d)) = %d", v, got)
		}
	}
}

func TestUint16RoundTrip(t *testing.T) {
	for _, v := range []uint16{0, 1, 255, 65535} {
		if got := encoding.Uint16(encoding.PutUint16(v)); got != v {
			t.Fatalf("Uint16(PutUint16(%d)) = %d", v, got)
		}
	}
}

func TestConcat(t *testing.T) {
	got := encoding.Concat([]byte("a"), []byte("bc"), nil, []byte("d"))
	want := []byte("abcd")

	if !bytes.Equal(got, want) {
		t.Fatalf("Concat = %q, want %q", got, want)
	}
}

func TestEncodeVector16DistinguishesEmptyFromZeroByte(t *testing.T) {
	empty := encoding.EncodeVector16(nil)
	one := encoding.EncodeVector16([]byte{0})

	if bytes.Equal(empty, one) {
		t.Fatal("EncodeVector16(nil) collided with EncodeVector16([]byte{0})")
	}

	if len(empty) != 2 {
		t.Fatalf("EncodeVector16(nil) length = %d, want 2", len(empty))
	}
}
