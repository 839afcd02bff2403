// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package app wires the auth and link services into the single boundary the
// presentation layer calls. It owns no logic of its own beyond metric
// recording and short-URL rendering.
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gowink/wink/internal/auth"
	"github.com/gowink/wink/internal/link"
	"github.com/gowink/wink/internal/observability"
)

// OwnedLink is one entry of a user's link listing.
type OwnedLink struct {
	Code string `json:"code"`
	URL  string `json:"url"`
	Hits int64  `json:"hits"`
}

// App is the core-to-collaborator boundary consumed by the transport layer.
type App struct {
	auth    *auth.Service
	links   *link.Registry
	baseURL string
	metrics *observability.Metrics
}

// New creates an App. metrics may be nil when observability is disabled.
func New(authSvc *auth.Service, links *link.Registry, baseURL string, metrics *observability.Metrics) (*App, error) {
	if authSvc == nil {
		return nil, oops.Code("APP_INVALID_DEPS").Errorf("auth service is required")
	}
	if links == nil {
		return nil, oops.Code("APP_INVALID_DEPS").Errorf("link registry is required")
	}
	return &App{
		auth:    authSvc,
		links:   links,
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
	}, nil
}

// CreateLink creates a short link for the URL, owned by the session's user
// when the token is valid and anonymous otherwise. Returns the short code.
func (a *App) CreateLink(ctx context.Context, url, sessionToken string) (string, error) {
	code, owned, err := a.links.CreateLink(ctx, url, sessionToken)
	if err != nil {
		return "", err
	}
	if a.metrics != nil {
		ownership := "anonymous"
		if owned {
			ownership = "owned"
		}
		a.metrics.LinksCreatedTotal.WithLabelValues(ownership).Inc()
	}
	return code, nil
}

// ResolveLink resolves a short code to its target URL, counting the hit.
func (a *App) ResolveLink(ctx context.Context, code string) (string, error) {
	url, err := a.links.Resolve(ctx, code)
	if a.metrics != nil {
		status := "ok"
		if errors.Is(err, link.ErrNotFound) {
			status = "not_found"
		} else if err != nil {
			status = "error"
		}
		a.metrics.RedirectsTotal.WithLabelValues(status).Inc()
	}
	return url, err
}

// Signup registers a new user.
func (a *App) Signup(ctx context.Context, email, password string) (ulid.ULID, error) {
	id, err := a.auth.Signup(ctx, email, password)
	if a.metrics != nil {
		status := "ok"
		if errors.Is(err, auth.ErrDuplicateEmail) {
			status = "duplicate_email"
		} else if err != nil {
			status = "error"
		}
		a.metrics.SignupsTotal.WithLabelValues(status).Inc()
	}
	return id, err
}

// Login authenticates a user and returns a session bearer token.
func (a *App) Login(ctx context.Context, email, password string) (string, error) {
	token, err := a.auth.Login(ctx, email, password)
	if a.metrics != nil {
		status := "ok"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			status = "invalid_credentials"
		} else if err != nil {
			status = "error"
		}
		a.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
	return token, err
}

// Logout revokes a session. Idempotent.
func (a *App) Logout(ctx context.Context, sessionToken string) error {
	return a.auth.Revoke(ctx, sessionToken)
}

// LogoutAll revokes every session of the token's user (logout everywhere).
// Fails with auth.ErrSessionInvalid (wrapped) when the token is unknown or
// expired.
func (a *App) LogoutAll(ctx context.Context, sessionToken string) error {
	return a.auth.RevokeAll(ctx, sessionToken)
}

// ListOwnedLinks returns the session user's links, oldest first.
// Fails with auth.ErrSessionInvalid (wrapped) when the session is unknown
// or expired.
func (a *App) ListOwnedLinks(ctx context.Context, sessionToken string) ([]OwnedLink, error) {
	links, err := a.links.ListOwned(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	out := make([]OwnedLink, 0, len(links))
	for _, l := range links {
		out = append(out, OwnedLink{Code: l.Code, URL: l.URL, Hits: l.Hits})
	}
	return out, nil
}

// ShortURL renders the public short URL for a code.
func (a *App) ShortURL(code string) string {
	return a.baseURL + "/" + code
}
