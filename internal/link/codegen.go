// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package link

import (
	"crypto/rand"
	"math/big"

	"github.com/samber/oops"
)

// codeAlphabet is the alphanumeric draw space for short codes.
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Supported code length range. The code length is fixed per deployment and
// threaded in at construction.
const (
	MinCodeLength     = 4
	MaxCodeLength     = 32
	DefaultCodeLength = 8
)

// ValidateCodeLength checks a configured code length against the supported range.
func ValidateCodeLength(length int) error {
	if length < MinCodeLength || length > MaxCodeLength {
		return oops.Code("LINK_INVALID_CODE_LENGTH").
			With("code_length", length).
			With("min", MinCodeLength).
			With("max", MaxCodeLength).
			Errorf("code length must be between %d and %d characters", MinCodeLength, MaxCodeLength)
	}
	return nil
}

// GenerateCode draws a random alphanumeric code of the given length.
// Uniqueness is not guaranteed here; the store's unique index plus a bounded
// retry in the registry close that gap.
func GenerateCode(length int) (string, error) {
	if err := ValidateCodeLength(length); err != nil {
		return "", err
	}

	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", oops.Code("LINK_CODE_GENERATE_FAILED").
				With("operation", "crypto/rand.Int").
				Wrap(err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
