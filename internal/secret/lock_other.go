// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

//go:build !unix

package secret

// lock is a no-op on platforms without an mlock equivalent wired up. The
// zeroisation guarantee in Release still holds; only swap-exposure is
// unprotected.
func lock(_ []byte) bool { return false }

func unlock(_ []byte) {}
