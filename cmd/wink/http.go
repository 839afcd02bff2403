// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gowink/wink/internal/app"
	"github.com/gowink/wink/internal/auth"
	"github.com/gowink/wink/internal/link"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// shortener is the application surface the HTTP layer consumes.
// Satisfied by *app.App; narrowed for handler tests.
type shortener interface {
	Signup(ctx context.Context, email, password string) (ulid.ULID, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, sessionToken string) error
	LogoutAll(ctx context.Context, sessionToken string) error
	CreateLink(ctx context.Context, url, sessionToken string) (string, error)
	ResolveLink(ctx context.Context, code string) (string, error)
	ListOwnedLinks(ctx context.Context, sessionToken string) ([]app.OwnedLink, error)
	ShortURL(code string) string
}

var _ shortener = (*app.App)(nil)

type handler struct {
	app shortener
}

// newHandler builds the HTTP mux for redirects and the JSON API.
func newHandler(s shortener) http.Handler {
	h := &handler{app: s}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/signup", h.signup)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("POST /api/logout-all", h.logoutAll)
	mux.HandleFunc("POST /api/links", h.createLink)
	mux.HandleFunc("GET /api/links", h.listLinks)
	mux.HandleFunc("GET /{code}", h.redirect)
	mux.HandleFunc("GET /{$}", h.index)

	return mux
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createLinkRequest struct {
	URL string `json:"url"`
}

func (h *handler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.app.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": id.String()})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.app.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logoutAll revokes every session of the calling user. Unlike logout it
// requires a valid token, since the user to revoke comes from the session.
func (h *handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	if err := h.app.LogoutAll(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// The bearer token is optional: a missing or invalid session still
	// creates the link, just without an owner.
	code, err := h.app.CreateLink(r.Context(), req.URL, bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"code":      code,
		"short_url": h.app.ShortURL(code),
	})
}

func (h *handler) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.app.ListOwnedLinks(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request) {
	url, err := h.app.ResolveLink(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *handler) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "wink"})
}

// bearerToken extracts the bearer token from the Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// decodeJSON decodes the request body into v, writing a 400 response and
// returning false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("error writing response", "error", err)
	}
}

// writeError maps a service error to an HTTP status and JSON body.
// Internal errors are logged and return a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := errStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// errStatus maps service sentinels and validation codes to HTTP statuses.
func errStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrSessionInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, link.ErrNotFound):
		return http.StatusNotFound
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		oe, ok := e.(oops.OopsError) //nolint:errorlint // walking the chain link by link
		if !ok {
			continue
		}
		switch oe.Code() {
		case "AUTH_INVALID_EMAIL", "AUTH_EMPTY_PASSWORD", "LINK_INVALID_URL":
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
