// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package link

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/gowink/wink/internal/ids"
	"github.com/gowink/wink/pkg/errutil"
)

// DefaultMaxCodeAttempts bounds the generate-and-check loop on code collision.
// With an 8-character draw from a 62-symbol alphabet the space is ~2.18e14,
// so more than a couple of attempts indicates something badly wrong.
const DefaultMaxCodeAttempts = 3

// SessionValidator resolves a bearer token to a user identifier.
// Implemented by auth.Service.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (ulid.ULID, error)
}

// Registry generates short codes, stores mappings, and resolves codes to
// targets while counting hits.
type Registry struct {
	repo        Repository
	sessions    SessionValidator
	codeLen     int
	maxAttempts int
	logger      *slog.Logger
}

// NewRegistry creates a Registry. codeLength must be in the supported range;
// maxAttempts <= 0 selects DefaultMaxCodeAttempts.
func NewRegistry(repo Repository, sessions SessionValidator, codeLength, maxAttempts int, logger *slog.Logger) (*Registry, error) {
	if repo == nil {
		return nil, oops.Code("LINK_INVALID_DEPS").Errorf("repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("LINK_INVALID_DEPS").Errorf("session validator is required")
	}
	if err := ValidateCodeLength(codeLength); err != nil {
		return nil, err
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxCodeAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		repo:        repo,
		sessions:    sessions,
		codeLen:     codeLength,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

// CreateLink normalizes the URL, generates a code, and persists the mapping
// with a zero hit counter. When sessionToken carries a valid session, the
// ownership row is written in the same transaction as the link; an absent or
// invalid session produces an anonymous link, and link creation still
// succeeds. Code collisions are retried with a fresh code up to the
// configured attempt budget. The second return value reports whether the
// link was created with an owner.
func (r *Registry) CreateLink(ctx context.Context, rawURL, sessionToken string) (string, bool, error) {
	if rawURL == "" {
		return "", false, oops.Code("LINK_INVALID_URL").Errorf("url cannot be empty")
	}
	url := Normalize(rawURL)

	owner := r.resolveOwner(ctx, sessionToken)

	var code string
	backoff := retry.WithMaxRetries(uint64(r.maxAttempts-1), retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		generated, genErr := GenerateCode(r.codeLen)
		if genErr != nil {
			return genErr
		}

		l := &Link{
			Code:      generated,
			URL:       url,
			Hits:      0,
			CreatedAt: time.Now(),
		}
		var o *Ownership
		if owner != nil {
			o = &Ownership{ID: ids.New(), UserID: *owner, Code: generated}
		}

		if createErr := r.repo.Create(ctx, l, o); createErr != nil {
			if errors.Is(createErr, ErrCodeTaken) {
				r.logger.Warn("short code collision, retrying", "code", generated)
				return retry.RetryableError(createErr)
			}
			return createErr
		}
		code = generated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return "", false, oops.Code("LINK_CODE_EXHAUSTED").
				With("attempts", r.maxAttempts).
				Wrap(err)
		}
		return "", false, oops.Code("LINK_CREATE_FAILED").
			With("operation", "persist link").
			Wrap(err)
	}

	return code, owner != nil, nil
}

// Resolve returns the target URL for a code, incrementing its hit counter by
// exactly one as a single atomic statement. An absent code returns
// ErrNotFound (wrapped), fatal to the calling request.
func (r *Registry) Resolve(ctx context.Context, code string) (string, error) {
	url, err := r.repo.ResolveAndCount(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code("LINK_NOT_FOUND").
				With("code", code).
				Wrap(err)
		}
		return "", oops.Code("LINK_RESOLVE_FAILED").
			With("operation", "resolve and count").
			With("code", code).
			Wrap(err)
	}
	return url, nil
}

// LinkOwnership associates an existing code with the session's user. If the
// session is absent or fails validation this is a silent no-op: no error, no
// ownership row.
func (r *Registry) LinkOwnership(ctx context.Context, code, sessionToken string) error {
	owner := r.resolveOwner(ctx, sessionToken)
	if owner == nil {
		return nil
	}

	o := &Ownership{ID: ids.New(), UserID: *owner, Code: code}
	if err := r.repo.AddOwnership(ctx, o); err != nil {
		return oops.Code("LINK_OWNERSHIP_FAILED").
			With("operation", "add ownership").
			With("code", code).
			Wrap(err)
	}
	return nil
}

// ListOwned returns the links owned by the session's user, oldest first.
// Unlike LinkOwnership, an invalid session here is an error: the caller asked
// a question only an authenticated user can ask.
func (r *Registry) ListOwned(ctx context.Context, sessionToken string) ([]*Link, error) {
	userID, err := r.sessions.Validate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	links, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, oops.Code("LINK_LIST_FAILED").
			With("operation", "list by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return links, nil
}

// resolveOwner validates the session token, returning nil for any token that
// does not resolve to a user. Validation failures are logged but never block
// link creation: availability of the registry wins over ownership.
func (r *Registry) resolveOwner(ctx context.Context, sessionToken string) *ulid.ULID {
	if sessionToken == "" {
		return nil
	}
	userID, err := r.sessions.Validate(ctx, sessionToken)
	if err != nil {
		errutil.LogError(r.logger, "session validation failed, creating anonymous link", err)
		return nil
	}
	return &userID
}
