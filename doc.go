// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package opaque implements an asymmetric password-authenticated key
// exchange: a server stores an OPRF key and a sealed envelope per user,
// never the password itself, and a successful login leaves both sides
// holding an identical, mutually authenticated session key.
//
// Two registration flows are supported. RegisterTrusted is for a server
// that already holds the plaintext password, for example during an
// offline import. The private flow - RegisterInit, RegisterRespond,
// RegisterUpload and RegisterStore - runs the same OPRF-blinded exchange
// as login does, so the server never observes the password in either
// flow.
//
// A login runs as four calls across the two parties: the client calls
// LoginInit then LoginFinalize, the server calls LoginEvaluate then
// LoginVerify. The client learns of a failed handshake from LoginFinalize's
// error; the server learns of one from LoginVerify's.
package opaque
