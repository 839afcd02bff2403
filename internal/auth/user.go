// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gowink/wink/internal/ids"
)

// MaxEmailLength bounds stored email addresses.
const MaxEmailLength = 254

// emailRegex accepts addresses of the shape local@domain.tld. It is a
// plausibility check, not an RFC 5322 validator.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account. Users are immutable after signup.
type User struct {
	ID         ulid.ULID
	Email      string
	Credential string // structured encoding produced by Hasher.Encode
	CreatedAt  time.Time
}

// NewUser creates a validated User instance.
func NewUser(email, credential string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if credential == "" {
		return nil, oops.Code("USER_INVALID_CREDENTIAL").Errorf("credential cannot be empty")
	}

	return &User{
		ID:         ids.New(),
		Email:      strings.ToLower(email),
		Credential: credential,
		CreatedAt:  time.Now(),
	}, nil
}

// ValidateEmail validates an email address against rules.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email must be of the form local@domain")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateEmail (wrapped) when the
	// email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
