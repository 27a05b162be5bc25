// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package group wraps the prime-order group used by the protocol engine:
// Ristretto255 over Curve25519, with scalar and point arithmetic delegated
// to github.com/bytemare/crypto.
package group

import (
	"errors"

	group "github.com/bytemare/crypto"
)

// Suite fixes the prime-order group for the whole engine. spec.md assumes a
// single cipher suite with no on-wire negotiation.
const Suite = group.Ristretto255Sha512

// PointLength is the fixed wire length of an encoded group element.
const PointLength = 32

// ScalarLength is the fixed wire length of an encoded scalar.
const ScalarLength = 32

// ErrInvalidPoint is returned whenever a wire-supplied point fails to decode
// into a valid element of the prime-order subgroup.
var ErrInvalidPoint = errors.New("invalid point: not a valid group element")

// ErrInvalidScalar is returned whenever a wire-supplied scalar fails to decode.
var ErrInvalidScalar = errors.New("invalid scalar encoding")

// Point is an element of the group.
type Point = group.Element

// Scalar is an element of the scalar field.
type Scalar = group.Scalar

// G returns the configured group instance.
func G() group.Group {
	return Suite
}

// RandomScalar samples a uniformly random non-zero scalar.
func RandomScalar() *Scalar {
	return G().NewScalar().Random()
}

// Base returns the group's fixed base point.
func Base() *Point {
	return G().Base()
}

// ScalarBaseMult computes s*Base, i.e. a public key from a private scalar.
func ScalarBaseMult(s *Scalar) *Point {
	return Base().Multiply(s)
}

// Mult computes s*P, a variable-base scalar multiplication.
func Mult(p *Point, s *Scalar) *Point {
	return p.Copy().Multiply(s)
}

// InvertMult computes (s^-1)*P, undoing a blinding factor applied with
// Mult. Used by the OPRF client to unblind the server's evaluation.
func InvertMult(p *Point, s *Scalar) *Point {
	return p.Copy().Multiply(s.Copy().Invert())
}

// EncodePoint returns the canonical wire encoding of p.
func EncodePoint(p *Point) []byte {
	return p.Encode()
}

// EncodeScalar returns the canonical wire encoding of s.
func EncodeScalar(s *Scalar) []byte {
	return s.Encode()
}

// DecodePoint decodes and validates a wire-encoded group element. A decode
// failure, including non-canonical encodings and points outside the
// prime-order subgroup, is reported as ErrInvalidPoint.
func DecodePoint(b []byte) (*Point, error) {
	if len(b) != PointLength {
		return nil, ErrInvalidPoint
	}

	p := G().NewElement()
	if err := p.Decode(b); err != nil {
		return nil, ErrInvalidPoint
	}

	return p, nil
}

// DecodeScalar decodes a wire-encoded scalar.
func DecodeScalar(b []byte) (*Scalar, error) {
	if len(b) != ScalarLength {
		return nil, ErrInvalidScalar
	}

	s := G().NewScalar()
	if err := s.Decode(b); err != nil {
		return nil, ErrInvalidScalar
	}

	return s, nil
}

// HashToGroup deterministically maps input to a group element under the
// given domain-separation tag. Used by the OPRF to hash a password into the
// group before blinding.
func HashToGroup(input, dst []byte) *Point {
	return G().HashToGroup(input, dst)
}
