// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package link_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gowink/wink/internal/auth"
	"github.com/gowink/wink/internal/ids"
	"github.com/gowink/wink/internal/link"
	"github.com/gowink/wink/internal/link/mocks"
)

func newRegistry(t *testing.T, repo link.Repository, sessions link.SessionValidator) *link.Registry {
	t.Helper()
	registry, err := link.NewRegistry(repo, sessions, link.DefaultCodeLength, link.DefaultMaxCodeAttempts, slog.Default())
	require.NoError(t, err)
	return registry
}

func TestNewRegistry(t *testing.T) {
	t.Run("rejects nil repository", func(t *testing.T) {
		_, err := link.NewRegistry(nil, mocks.NewMockSessionValidator(t), link.DefaultCodeLength, 0, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil session validator", func(t *testing.T) {
		_, err := link.NewRegistry(mocks.NewMockRepository(t), nil, link.DefaultCodeLength, 0, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid code length", func(t *testing.T) {
		_, err := link.NewRegistry(mocks.NewMockRepository(t), mocks.NewMockSessionValidator(t), link.MinCodeLength-1, 0, nil)
		assert.Error(t, err)
	})
}

func TestRegistry_CreateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous link without token", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)

		var created *link.Link
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), (*link.Ownership)(nil)).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*link.Link)
			}).
			Return(nil)

		registry := newRegistry(t, repo, sessions)

		code, owned, err := registry.CreateLink(ctx, "example.com", "")
		require.NoError(t, err)
		assert.False(t, owned)

		require.NotNil(t, created)
		assert.Equal(t, created.Code, code)
		assert.Len(t, code, link.DefaultCodeLength)
		assert.Equal(t, "https://example.com", created.URL)
		assert.Zero(t, created.Hits)
	})

	t.Run("owned link with valid session", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)

		userID := ids.New()
		sessions.On("Validate", ctx, "token").Return(userID, nil)

		var ownership *link.Ownership
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), mock.AnythingOfType("*link.Ownership")).
			Run(func(args mock.Arguments) {
				ownership = args.Get(2).(*link.Ownership)
			}).
			Return(nil)

		registry := newRegistry(t, repo, sessions)

		code, owned, err := registry.CreateLink(ctx, "https://example.com", "token")
		require.NoError(t, err)
		assert.True(t, owned)

		require.NotNil(t, ownership)
		assert.Equal(t, userID, ownership.UserID)
		assert.Equal(t, code, ownership.Code)
		assert.NotEqual(t, ulid.ULID{}, ownership.ID)
	})

	t.Run("invalid session still creates anonymous link", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)

		sessions.On("Validate", ctx, "expired").Return(ulid.ULID{}, auth.ErrSessionInvalid)
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), (*link.Ownership)(nil)).Return(nil)

		registry := newRegistry(t, repo, sessions)

		_, owned, err := registry.CreateLink(ctx, "example.com", "expired")
		require.NoError(t, err)
		assert.False(t, owned)
	})

	t.Run("collision retries with a fresh code", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)

		var codes []string
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), (*link.Ownership)(nil)).
			Run(func(args mock.Arguments) {
				codes = append(codes, args.Get(1).(*link.Link).Code)
			}).
			Return(link.ErrCodeTaken).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), (*link.Ownership)(nil)).
			Run(func(args mock.Arguments) {
				codes = append(codes, args.Get(1).(*link.Link).Code)
			}).
			Return(nil).Once()

		registry := newRegistry(t, repo, sessions)

		code, _, err := registry.CreateLink(ctx, "example.com", "")
		require.NoError(t, err)

		require.Len(t, codes, 2)
		assert.NotEqual(t, codes[0], codes[1])
		assert.Equal(t, codes[1], code)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), (*link.Ownership)(nil)).
			Return(link.ErrCodeTaken).Times(link.DefaultMaxCodeAttempts)

		registry := newRegistry(t, repo, sessions)

		_, _, err := registry.CreateLink(ctx, "example.com", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, link.ErrCodeTaken)
	})

	t.Run("non-collision failure is not retried", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)
		repo.On("Create", ctx, mock.AnythingOfType("*link.Link"), (*link.Ownership)(nil)).
			Return(errors.New("connection refused")).Once()

		registry := newRegistry(t, repo, sessions)

		_, _, err := registry.CreateLink(ctx, "example.com", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty url", func(t *testing.T) {
		registry := newRegistry(t, mocks.NewMockRepository(t), mocks.NewMockSessionValidator(t))

		_, _, err := registry.CreateLink(ctx, "", "")
		assert.Error(t, err)
	})
}

func TestRegistry_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns target and counts the hit", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		repo.On("ResolveAndCount", ctx, "abc12345").Return("https://example.com", nil)

		registry := newRegistry(t, repo, mocks.NewMockSessionValidator(t))

		url, err := registry.Resolve(ctx, "abc12345")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("unknown code returns not found", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		repo.On("ResolveAndCount", ctx, "missing1").Return("", link.ErrNotFound)

		registry := newRegistry(t, repo, mocks.NewMockSessionValidator(t))

		_, err := registry.Resolve(ctx, "missing1")
		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestRegistry_LinkOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("records ownership for a valid session", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)

		userID := ids.New()
		sessions.On("Validate", ctx, "token").Return(userID, nil)

		var ownership *link.Ownership
		repo.On("AddOwnership", ctx, mock.AnythingOfType("*link.Ownership")).
			Run(func(args mock.Arguments) {
				ownership = args.Get(1).(*link.Ownership)
			}).
			Return(nil)

		registry := newRegistry(t, repo, sessions)

		require.NoError(t, registry.LinkOwnership(ctx, "abc12345", "token"))
		require.NotNil(t, ownership)
		assert.Equal(t, userID, ownership.UserID)
		assert.Equal(t, "abc12345", ownership.Code)
	})

	t.Run("missing session is a silent no-op", func(t *testing.T) {
		registry := newRegistry(t, mocks.NewMockRepository(t), mocks.NewMockSessionValidator(t))

		assert.NoError(t, registry.LinkOwnership(ctx, "abc12345", ""))
	})

	t.Run("invalid session is a silent no-op", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)
		sessions.On("Validate", ctx, "expired").Return(ulid.ULID{}, auth.ErrSessionInvalid)

		registry := newRegistry(t, repo, sessions)

		assert.NoError(t, registry.LinkOwnership(ctx, "abc12345", "expired"))
	})
}

func TestRegistry_ListOwned(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user's links", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)

		userID := ids.New()
		sessions.On("Validate", ctx, "token").Return(userID, nil)

		links := []*link.Link{
			{Code: "aaaa1111", URL: "https://one.example.com", Hits: 2, CreatedAt: time.Now().Add(-time.Hour)},
			{Code: "bbbb2222", URL: "https://two.example.com", Hits: 0, CreatedAt: time.Now()},
		}
		repo.On("ListByUser", ctx, userID).Return(links, nil)

		registry := newRegistry(t, repo, sessions)

		got, err := registry.ListOwned(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, links, got)
	})

	t.Run("invalid session is an error", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		sessions := mocks.NewMockSessionValidator(t)
		sessions.On("Validate", ctx, "expired").Return(ulid.ULID{}, auth.ErrSessionInvalid)

		registry := newRegistry(t, repo, sessions)

		_, err := registry.ListOwned(ctx, "expired")
		assert.ErrorIs(t, err, auth.ErrSessionInvalid)
	})
}
