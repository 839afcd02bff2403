// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package errutil makes oops errors usable in logs and test assertions.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError emits err through logger at error level. Errors built with oops
// contribute their code and context as structured attributes; anything else
// logs as a plain error string.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, "code", code)
	}
	if errCtx := oopsErr.Context(); len(errCtx) > 0 {
		attrs = append(attrs, "context", errCtx)
	}
	logger.Error(msg, attrs...)
}
