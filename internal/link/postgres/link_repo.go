// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package postgres implements the link repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gowink/wink/internal/link"
)

// pool abstracts pgxpool.Pool so the repository can be tested with pgxmock.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LinkRepository implements link.Repository using PostgreSQL.
type LinkRepository struct {
	pool pool
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(pool pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

const insertLinkSQL = `
	INSERT INTO links (code, url, hits, created_at)
	VALUES ($1, $2, $3, $4)
`

const insertOwnershipSQL = `
	INSERT INTO link_ownership (id, user_id, code)
	VALUES ($1, $2, $3)
`

// Create stores a new link. When owner is non-nil, the link and ownership
// rows are written in a single transaction with rollback on failure.
func (r *LinkRepository) Create(ctx context.Context, l *link.Link, owner *link.Ownership) error {
	if owner == nil {
		_, err := r.pool.Exec(ctx, insertLinkSQL, l.Code, l.URL, l.Hits, l.CreatedAt)
		return wrapLinkInsertErr(err, l.Code)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.Code("LINK_TX_BEGIN_FAILED").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, insertLinkSQL, l.Code, l.URL, l.Hits, l.CreatedAt); err != nil {
		return wrapLinkInsertErr(err, l.Code)
	}
	if _, err := tx.Exec(ctx, insertOwnershipSQL, owner.ID.String(), owner.UserID.String(), owner.Code); err != nil {
		return oops.Code("OWNERSHIP_CREATE_FAILED").
			With("operation", "insert link_ownership").
			With("code", owner.Code).
			With("user_id", owner.UserID.String()).
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("LINK_TX_COMMIT_FAILED").Wrap(err)
	}
	return nil
}

// wrapLinkInsertErr maps link insert errors, detecting code collisions.
func wrapLinkInsertErr(err error, code string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("LINK_CODE_TAKEN").
			With("code", code).
			Wrap(link.ErrCodeTaken)
	}
	return oops.Code("LINK_CREATE_FAILED").
		With("operation", "insert link").
		With("code", code).
		Wrap(err)
}

// Get retrieves a link by code without touching the hit counter.
func (r *LinkRepository) Get(ctx context.Context, code string) (*link.Link, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT code, url, hits, created_at
		FROM links
		WHERE code = $1
	`, code)

	l, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("LINK_NOT_FOUND").
			With("code", code).
			Wrap(link.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("LINK_GET_FAILED").
			With("operation", "get link").
			With("code", code).
			Wrap(err)
	}
	return l, nil
}

// ResolveAndCount returns the target URL for a code, incrementing the hit
// counter in the same statement so concurrent resolutions never lose updates.
func (r *LinkRepository) ResolveAndCount(ctx context.Context, code string) (string, error) {
	var url string
	err := r.pool.QueryRow(ctx, `
		UPDATE links SET hits = hits + 1
		WHERE code = $1
		RETURNING url
	`, code).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", oops.Code("LINK_NOT_FOUND").
			With("code", code).
			Wrap(link.ErrNotFound)
	}
	if err != nil {
		return "", oops.Code("LINK_RESOLVE_FAILED").
			With("operation", "resolve and count").
			With("code", code).
			Wrap(err)
	}
	return url, nil
}

// AddOwnership records an ownership row for an existing code.
func (r *LinkRepository) AddOwnership(ctx context.Context, owner *link.Ownership) error {
	_, err := r.pool.Exec(ctx, insertOwnershipSQL,
		owner.ID.String(),
		owner.UserID.String(),
		owner.Code,
	)
	if err != nil {
		return oops.Code("OWNERSHIP_CREATE_FAILED").
			With("operation", "insert link_ownership").
			With("code", owner.Code).
			With("user_id", owner.UserID.String()).
			Wrap(err)
	}
	return nil
}

// ListByUser returns all links owned by a user, oldest first.
func (r *LinkRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*link.Link, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.code, l.url, l.hits, l.created_at
		FROM links l
		JOIN link_ownership o ON o.code = l.code
		WHERE o.user_id = $1
		ORDER BY l.created_at
	`, userID.String())
	if err != nil {
		return nil, oops.Code("LINK_LIST_FAILED").
			With("operation", "list links by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var links []*link.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, oops.Code("LINK_SCAN_FAILED").
				With("operation", "scan link row").
				Wrap(err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("LINK_ROWS_ERROR").
			With("operation", "iterate link rows").
			Wrap(err)
	}

	return links, nil
}

// scanLink scans a single row into a Link.
// Callers are responsible for handling pgx.ErrNoRows.
func scanLink(row pgx.Row) (*link.Link, error) {
	var (
		code      string
		url       string
		hits      int64
		createdAt time.Time
	)

	if err := row.Scan(&code, &url, &hits, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("LINK_SCAN_FAILED").
			With("operation", "scan link").
			Wrap(err)
	}

	return &link.Link{
		Code:      code,
		URL:       url,
		Hits:      hits,
		CreatedAt: createdAt,
	}, nil
}

// Compile-time interface check.
var _ link.Repository = (*LinkRepository)(nil)
