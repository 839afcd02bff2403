// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2KeyLen  = 32        // output length in bytes
)

// Supported salt length range in bytes. The salt length is fixed per
// deployment and threaded in at construction; it must never change across
// the lifetime of a credential dataset.
const (
	MinSaltLength     = 8
	MaxSaltLength     = 64
	DefaultSaltLength = 16
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// Hasher derives and verifies salted argon2id password hashes.
//
// The stored credential is a structured encoding,
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// with salt and hash base64-encoded in separate fields, so splitting at
// verification time is unambiguous regardless of hash or salt content.
type Hasher struct {
	saltLen int
}

// NewHasher creates a Hasher with the given salt length in bytes.
func NewHasher(saltLength int) (*Hasher, error) {
	if saltLength < MinSaltLength || saltLength > MaxSaltLength {
		return nil, oops.Code("AUTH_INVALID_SALT_LENGTH").
			With("salt_length", saltLength).
			With("min", MinSaltLength).
			With("max", MaxSaltLength).
			Errorf("salt length must be between %d and %d bytes", MinSaltLength, MaxSaltLength)
	}
	return &Hasher{saltLen: saltLength}, nil
}

// SaltLength returns the configured salt length in bytes.
func (h *Hasher) SaltLength() int {
	return h.saltLen
}

// Hash derives a hash of the password using a freshly generated salt.
// Both return values are base64-encoded (raw, unpadded).
func (h *Hasher) Hash(password string) (hash, salt string, err error) {
	if password == "" {
		return "", "", ErrEmptyPassword
	}

	saltBytes := make([]byte, h.saltLen)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	salt = base64.RawStdEncoding.EncodeToString(saltBytes)
	hash, err = h.HashWithSalt(password, salt)
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

// HashWithSalt derives a hash of the password using the caller-supplied salt.
// The salt must be base64-encoded (raw, unpadded), as produced by Hash.
// Used at verification time to recompute the hash for comparison.
func (h *Hasher) HashWithSalt(password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	saltBytes, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", oops.Code("AUTH_INVALID_SALT").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), saltBytes, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Encode packs a hash and salt into the structured credential encoding.
func (h *Hasher) Encode(hash, salt string) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		salt,
		hash,
	)
}

// HashPassword derives and encodes a credential in one step.
func (h *Hasher) HashPassword(password string) (string, error) {
	hash, salt, err := h.Hash(password)
	if err != nil {
		return "", err
	}
	return h.Encode(hash, salt), nil
}

// Verify checks if the password matches the stored credential encoding.
// Returns (true, nil) on match, (false, nil) on mismatch, or an error when
// the stored encoding is malformed. A malformed encoding is fatal for the
// attempt, never silently defaulted.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	hash, salt, err := h.decode(encoded)
	if err != nil {
		return false, err
	}

	computed, err := h.HashWithSalt(password, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// decode splits a stored credential encoding into its hash and salt fields.
func (h *Hasher) decode(encoded string) (hash, salt string, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return "", "", oops.Code("AUTH_INVALID_HASH").Errorf("invalid credential format")
	}

	if parts[1] != "argon2id" {
		return "", "", oops.Code("AUTH_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return "", "", oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return "", "", oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if memory != argon2Memory || time != argon2Time || threads != argon2Threads {
		return "", "", oops.Code("AUTH_INVALID_HASH").
			With("memory", memory).
			With("time", time).
			With("threads", threads).
			Errorf("unsupported argon2 parameters")
	}

	salt = parts[4]
	saltBytes, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", "", oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(saltBytes) < MinSaltLength {
		return "", "", oops.Code("AUTH_INVALID_HASH").
			With("salt_bytes", len(saltBytes)).
			Errorf("stored salt shorter than minimum")
	}

	hash = parts[5]
	if _, err := base64.RawStdEncoding.DecodeString(hash); err != nil {
		return "", "", oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	return hash, salt, nil
}
