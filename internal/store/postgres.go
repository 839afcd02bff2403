// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package store provides the PostgreSQL connection pool and schema management.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// Store wraps the connection pool shared by all repositories. The pool is the
// only shared mutable resource in the process; connections are acquired per
// statement and released immediately.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL using the given DSN.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}
	return &Store{pool: pool}, nil
}

// Pool returns the underlying connection pool for repository construction.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
