// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package link

import "strings"

// Normalize returns the URL with an explicit scheme, prepending https:// when
// none is present. It is a pure, total function: malformed URLs are
// normalized syntactically but never validated for reachability or
// correctness, and the result is idempotent under repeated application.
func Normalize(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}
