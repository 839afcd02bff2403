// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package link provides the short-code registry: code generation, lookup,
// redirect resolution with hit counting, and ownership linking.
package link

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a requested code does not exist.
var ErrNotFound = errors.New("not found")

// ErrCodeTaken is returned when a generated code collides with an existing
// one. CreateLink retries with a fresh code on this error.
var ErrCodeTaken = errors.New("code already taken")

// Link maps a short code to a target URL. The hit counter is the only
// mutable field; it is incremented exactly once per successful resolution.
type Link struct {
	Code      string
	URL       string
	Hits      int64
	CreatedAt time.Time
}

// Ownership associates a user with a code they created while authenticated.
// Ownership rows reference codes, not numeric identifiers. A link with no
// Ownership row is anonymous.
type Ownership struct {
	ID     ulid.ULID
	UserID ulid.ULID
	Code   string
}

// Repository manages link and ownership persistence.
type Repository interface {
	// Create stores a new link. When owner is non-nil, the link and
	// ownership rows are written in a single transaction: either both
	// persist or neither does. Returns ErrCodeTaken (wrapped) when the
	// code collides with an existing one.
	Create(ctx context.Context, link *Link, owner *Ownership) error

	// Get retrieves a link by code without touching the hit counter.
	Get(ctx context.Context, code string) (*Link, error)

	// ResolveAndCount returns the target URL for a code, incrementing the
	// hit counter as a single atomic statement. Returns ErrNotFound
	// (wrapped) if the code is absent.
	ResolveAndCount(ctx context.Context, code string) (string, error)

	// AddOwnership records an ownership row for an existing code.
	AddOwnership(ctx context.Context, owner *Ownership) error

	// ListByUser returns all links owned by a user, oldest first.
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Link, error)
}
