// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package ids generates and parses the opaque ULID identifiers Wink uses
// for users, sessions, and ownership rows.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// generator serializes draws from a monotonic entropy source so IDs issued
// within the same millisecond still sort in issue order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var defaultGenerator = &generator{
	entropy: ulid.Monotonic(rand.Reader, 0),
}

func (g *generator) next() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// New returns a fresh ULID.
func New() ulid.ULID {
	return defaultGenerator.next()
}

// Parse converts the canonical string form back into a ULID.
func Parse(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code("ID_INVALID").
			With("input", s).
			Wrapf(err, "invalid ULID %q", s)
	}
	return id, nil
}
