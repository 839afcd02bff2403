// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gowink/wink/pkg/errutil"
)

// Service provides signup, login, session validation, and revocation.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   *Hasher
	lifetime time.Duration
	logger   *slog.Logger
}

// NewService creates a Service with the default logger.
func NewService(users UserRepository, sessions SessionRepository, hasher *Hasher, lifetime time.Duration) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, lifetime, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher *Hasher, lifetime time.Duration, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	if lifetime <= 0 {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("session lifetime must be positive")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("logger is required")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		lifetime: lifetime,
		logger:   logger,
	}, nil
}

// dummyCredential is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake encoding that will never match
// any password.
//
//nolint:gosec // G101: intentionally fake credential for timing attack prevention.
const dummyCredential = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Signup registers a new user and returns its identifier.
// Returns ErrDuplicateEmail (wrapped) when the email is already registered.
func (s *Service) Signup(ctx context.Context, email, password string) (ulid.ULID, error) {
	credential, err := s.hasher.HashPassword(password)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, credential)
	if err != nil {
		return ulid.ULID{}, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return ulid.ULID{}, oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(err)
		}
		return ulid.ULID{}, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	return user.ID, nil
}

// Login authenticates a user and creates a session, returning its bearer
// token. Uses constant-time operations to prevent timing-based email
// enumeration. All authentication failures surface as ErrInvalidCredentials
// (wrapped), without distinguishing "no such user" from "wrong password".
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	// Determine which credential to verify against (real or dummy for
	// timing attack prevention).
	target := dummyCredential
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		target = user.Credential
		userExists = true
	}

	// Always verify (constant-time operation for timing attack prevention).
	valid, verifyErr := s.hasher.Verify(password, target)
	if verifyErr != nil {
		// A malformed stored encoding is fatal for this attempt, but it is
		// surfaced uniformly as invalid credentials. Log the real cause.
		if userExists {
			errutil.LogError(s.logger, "stored credential could not be verified", verifyErr)
		}
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	if !userExists || !valid {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	return s.CreateSession(ctx, user.ID)
}

// CreateSession issues a session for the given user and returns its bearer
// token. Exactly one session is created per call; a user may hold multiple
// concurrent sessions.
func (s *Service) CreateSession(ctx context.Context, userID ulid.ULID) (string, error) {
	session, err := NewSession(userID, s.lifetime)
	if err != nil {
		return "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "new session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", userID.String()).
			Wrap(err)
	}

	return session.ID, nil
}

// Validate checks a bearer token and returns the owning user identifier.
// A missing record and an expired record both return ErrSessionInvalid
// (wrapped); callers cannot distinguish them.
func (s *Service) Validate(ctx context.Context, token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ulid.ULID{}, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
		}
		return ulid.ULID{}, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session").
			Wrap(err)
	}

	if session.IsExpired() {
		return ulid.ULID{}, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	return session.UserID, nil
}

// Revoke removes a session (logout). Idempotent: revoking an absent session
// is not an error.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// RevokeAll validates the given token and removes every session belonging
// to its user, the presented one included (logout everywhere). Returns
// ErrSessionInvalid (wrapped) when the token itself does not validate.
func (s *Service) RevokeAll(ctx context.Context, token string) error {
	userID, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete sessions by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// PruneExpired removes expired session records and returns the count.
// Validation never depends on this; it exists for storage hygiene only.
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("SESSION_PRUNE_FAILED").Wrap(err)
	}
	return n, nil
}
