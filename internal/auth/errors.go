// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when signing up with an email already in use.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrInvalidCredentials is returned on login failure. It deliberately does not
// distinguish "no such user" from "wrong password" to prevent enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionInvalid is returned when a session is unknown or expired. The two
// cases are indistinguishable to callers to avoid leaking existence information.
var ErrSessionInvalid = errors.New("session invalid")
