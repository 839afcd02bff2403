// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes      = 32             // 32 bytes = 64 hex chars
	DefaultSessionLifetime = 24 * time.Hour // lifetime of a fresh session
)

// Session represents an authenticated login. The ID is the bearer token
// handed to the caller; the core does not manage cookie transport.
//
// A session is valid iff ExpiresAt is in the future. Expired sessions are
// inert but not proactively deleted (lazy expiry). Each login creates a
// fresh session; there is no renewal.
type Session struct {
	ID        string
	UserID    ulid.ULID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a Session for the given user with a fresh bearer token
// and an expiry of now + lifetime.
func NewSession(userID ulid.ULID, lifetime time.Duration) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if lifetime <= 0 {
		return nil, oops.Code("SESSION_INVALID_LIFETIME").
			With("lifetime", lifetime).
			Errorf("session lifetime must be positive")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}

// generateSessionToken creates an opaque random bearer token.
func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by its bearer token.
	// Returns ErrNotFound (wrapped) if no record exists.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by its bearer token. Deleting an absent
	// session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes all sessions for a user.
	DeleteByUser(ctx context.Context, userID ulid.ULID) error

	// DeleteExpired removes all expired sessions and returns the count
	// of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
