// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gowink/wink/internal/auth"
	"github.com/gowink/wink/internal/ids"
)

func TestNewSession(t *testing.T) {
	userID := ids.New()

	t.Run("creates session with opaque token", func(t *testing.T) {
		session, err := auth.NewSession(userID, auth.DefaultSessionLifetime)
		require.NoError(t, err)
		assert.Len(t, session.ID, auth.SessionTokenBytes*2) // hex encoding
		assert.Equal(t, userID, session.UserID)
		assert.False(t, session.IsExpired())
	})

	t.Run("tokens are unique", func(t *testing.T) {
		s1, err := auth.NewSession(userID, auth.DefaultSessionLifetime)
		require.NoError(t, err)
		s2, err := auth.NewSession(userID, auth.DefaultSessionLifetime)
		require.NoError(t, err)
		assert.NotEqual(t, s1.ID, s2.ID)
	})

	t.Run("expiry is now plus lifetime", func(t *testing.T) {
		before := time.Now()
		session, err := auth.NewSession(userID, time.Hour)
		require.NoError(t, err)
		after := time.Now()

		assert.False(t, session.ExpiresAt.Before(before.Add(time.Hour)))
		assert.False(t, session.ExpiresAt.After(after.Add(time.Hour)))
	})

	t.Run("rejects zero user ID", func(t *testing.T) {
		_, err := auth.NewSession(ulid.ULID{}, time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		_, err := auth.NewSession(userID, 0)
		assert.Error(t, err)
		_, err = auth.NewSession(userID, -time.Hour)
		assert.Error(t, err)
	})
}

func TestSessionExpiry(t *testing.T) {
	session, err := auth.NewSession(ids.New(), time.Hour)
	require.NoError(t, err)

	t.Run("valid before expiry", func(t *testing.T) {
		assert.False(t, session.IsExpiredAt(session.ExpiresAt.Add(-time.Second)))
	})

	t.Run("expired exactly at expiry", func(t *testing.T) {
		assert.True(t, session.IsExpiredAt(session.ExpiresAt))
	})

	t.Run("expired after expiry", func(t *testing.T) {
		assert.True(t, session.IsExpiredAt(session.ExpiresAt.Add(time.Second)))
	})
}
