// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding implements the fixed-length, little-endian, tightly
// packed wire layouts of spec.md §3 and §6. Every struct here is a byte
// slicer and concatenator, never a cast over raw memory: field order and
// width are the protocol's contract, not an artifact of a compiler's
// struct layout.
package encoding

import "encoding/binary"

// Fixed field widths, in bytes, from spec.md §3.
const (
	PointLen  = 32
	ScalarLen = 32
	HashLen   = 32
	TagLen    = 32
	NonceLen  = 32
	LenLen    = 8 // u64-LE length field
)

// Concat concatenates byte slices into a single freshly allocated slice.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// PutUint64 encodes v as an 8-byte little-endian length field.
func PutUint64(v uint64) []byte {
	b := make([]byte, LenLen)
	binary.LittleEndian.PutUint64(b, v)

	return b
}

// Uint64 decodes an 8-byte little-endian length field.
func Uint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// Uint16 decodes a 2-byte little-endian length field, used for the short
// identity-length prefixes of Opaque_Ids.
func Uint16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// PutUint16 encodes v as a 2-byte little-endian length field.
func PutUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)

	return b
}

// EncodeVector16 length-prefixes data with a 2-byte little-endian length,
// so that the boundary between adjacent variable-length fields is never
// ambiguous. A nil and an empty slice both encode as the bare prefix 0x0000.
func EncodeVector16(data []byte) []byte {
	return Concat(PutUint16(uint16(len(data))), data)
}
