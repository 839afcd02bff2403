//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gowink/wink/internal/store"
)

// startPostgresContainer starts a PostgreSQL container for testing.
func startPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestMigrator_RealDatabase(t *testing.T) {
	connStr := startPostgresContainer(t)

	migrator, err := store.NewMigrator(connStr)
	require.NoError(t, err)
	defer migrator.Close() //nolint:errcheck

	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	pending, err := migrator.PendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Up is idempotent once at the latest version.
	require.NoError(t, migrator.Up())

	require.NoError(t, migrator.Down())
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}

func TestStore_OpenAndPing(t *testing.T) {
	connStr := startPostgresContainer(t)
	ctx := context.Background()

	st, err := store.Open(ctx, connStr)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Ping(ctx))
	assert.NotNil(t, st.Pool())
}

func TestMigrator_CreatesSchema(t *testing.T) {
	connStr := startPostgresContainer(t)
	ctx := context.Background()

	migrator, err := store.NewMigrator(connStr)
	require.NoError(t, err)
	defer migrator.Close() //nolint:errcheck
	require.NoError(t, migrator.Up())

	st, err := store.Open(ctx, connStr)
	require.NoError(t, err)
	defer st.Close()

	for _, table := range []string{"users", "sessions", "links", "link_ownership"} {
		var exists bool
		err := st.Pool().QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after migration", table)
	}
}
