// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package logging configures Wink's process-wide structured logger: slog
// with the service identity stamped on every record and OpenTelemetry
// trace/span IDs picked up from the request context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// serviceName identifies this process in every log record.
const serviceName = "wink"

// traceHandler decorates records with the trace context of the request that
// produced them. Service identity attrs are attached once at construction.
type traceHandler struct {
	inner slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.inner.Handle(ctx, r)
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{inner: h.inner.WithGroup(name)}
}

// New creates a Wink logger writing to w.
// format is "json" or "text"; anything else falls back to JSON.
// A nil w writes to os.Stderr.
func New(version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}
	base = base.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})

	return slog.New(&traceHandler{inner: base})
}

// SetDefault installs the Wink logger as the process default.
func SetDefault(version, format string) {
	slog.SetDefault(New(version, format, nil))
}
