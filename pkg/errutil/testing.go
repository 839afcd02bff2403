// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails the test unless err is an oops error carrying code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "error %T carries no oops code", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext fails the test unless err is an oops error whose
// context holds value under key.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "error %T carries no oops context", err)
	errCtx := oopsErr.Context()
	require.Contains(t, errCtx, key)
	assert.Equal(t, value, errCtx[key])
}
