// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package auth provides credential hashing and session management for Wink.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their constructors:
//   - NewUser - creates a User with a validated email and stored credential
//   - NewSession - creates a Session with a fresh bearer token and expiry
//
// Direct struct initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated types from these constructors.
//
// # Services
//
// Service coordinates signup, login, session validation, and revocation.
// Credentials are hashed with argon2id and stored in a structured encoding
// that carries the algorithm parameters, salt, and derived key, so splitting
// at verification time is unambiguous regardless of content. Sessions use
// lazy expiry: validation checks the expiry instant, but expired records are
// only removed by an explicit cleanup pass.
package auth
