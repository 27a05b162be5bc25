// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

//go:build unix

package secret

import "golang.org/x/sys/unix"

func lock(b []byte) bool {
	if len(b) == 0 {
		return false
	}

	return unix.Mlock(b) == nil
}

func unlock(b []byte) {
	if len(b) == 0 {
		return
	}

	_ = unix.Munlock(b)
}
