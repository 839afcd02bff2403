// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package link_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gowink/wink/internal/link"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain gets https", "example.com", "https://example.com"},
		{"path is preserved", "example.com/a/b?q=1", "https://example.com/a/b?q=1"},
		{"http passes through", "http://example.com", "http://example.com"},
		{"https passes through", "https://example.com", "https://example.com"},
		{"other schemes are treated as bare", "ftp://example.com", "https://ftp://example.com"},
		{"scheme prefix mid-string does not count", "example.com/https://other", "https://example.com/https://other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, link.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"example.com", "http://example.com", "https://example.com", "ftp://example.com"} {
		once := link.Normalize(in)
		assert.Equal(t, once, link.Normalize(once), "input %q", in)
	}
}
