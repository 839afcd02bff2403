// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gowink/wink/internal/auth"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with generated ID", func(t *testing.T) {
		user, err := auth.NewUser("alice@example.com", "$argon2id$encoded")
		require.NoError(t, err)
		assert.NotEqual(t, ulid.ULID{}, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("lowercases email", func(t *testing.T) {
		user, err := auth.NewUser("Alice@Example.COM", "$argon2id$encoded")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := auth.NewUser("not-an-email", "$argon2id$encoded")
		assert.Error(t, err)
	})

	t.Run("rejects empty credential", func(t *testing.T) {
		_, err := auth.NewUser("alice@example.com", "")
		assert.Error(t, err)
	})
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b+tag@sub.example.org",
		"x@y.zz",
	}
	for _, email := range valid {
		t.Run("accepts "+email, func(t *testing.T) {
			assert.NoError(t, auth.ValidateEmail(email))
		})
	}

	invalid := map[string]string{
		"empty":            "",
		"missing at":       "alice.example.com",
		"missing domain":   "alice@",
		"missing tld":      "alice@example",
		"contains space":   "alice smith@example.com",
		"double at":        "alice@@example.com",
		"exceeds max size": "a@" + strings.Repeat("b", auth.MaxEmailLength) + ".com",
	}
	for name, email := range invalid {
		t.Run("rejects "+name, func(t *testing.T) {
			assert.Error(t, auth.ValidateEmail(email))
		})
	}
}
