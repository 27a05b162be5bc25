// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ksf wraps github.com/bytemare/ksf to run the memory-hard key
// stretching function spec.md §4.1 requires between the OPRF output and the
// randomized password: Argon2id with libsodium's "interactive" parameters
// (time=2, memory=64 MiB, parallelism=1), and an all-zero salt. The zero
// salt is a deliberate deviation spelled out in spec.md §9.ii: the per-user
// randomness already lives in rw0 via the server's OPRF key, so it is not
// "fixed" here.
package ksf

import (
	"errors"

	bksf "github.com/bytemare/ksf"
)

const (
	interactiveTime        = 2
	interactiveMemoryKiB   = 65536
	interactiveParallelism = 1
	saltLength             = 32
)

// ErrOOM is returned when the key stretching function exhausts the memory
// budget the platform made available to it.
var ErrOOM = errors.New("password hashing ran out of memory")

// Harden runs Argon2id(password, salt=0^32) with interactive parameters,
// producing length bytes of output.
func Harden(password []byte, length int) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, ErrOOM
		}
	}()

	f := bksf.Argon2id.Get()
	f.Parameterize(interactiveTime, interactiveMemoryKiB, interactiveParallelism)

	salt := make([]byte, saltLength)

	return f.Harden(password, salt, length), nil
}
