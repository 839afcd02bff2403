// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func startServer(t *testing.T, ready ReadinessChecker) *Server {
	t.Helper()

	server := NewServer("127.0.0.1:0", ready)
	if _, err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})
	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("failed to GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_Metrics(t *testing.T) {
	server := startServer(t, func() bool { return true })

	addr := server.Addr()
	if addr == "" {
		t.Fatal("server address is empty")
	}

	status, body := get(t, "http://"+addr+"/metrics")
	if status != http.StatusOK {
		t.Errorf("expected status 200, got %d", status)
	}

	// Prometheus format indicators plus standard collectors
	for _, want := range []string{"# HELP", "# TYPE", "go_", "process_"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}

	// Increment custom metrics so they appear in output
	metrics := server.Metrics()
	metrics.LinksCreatedTotal.WithLabelValues("anonymous").Inc()
	metrics.RedirectsTotal.WithLabelValues("ok").Inc()
	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	metrics.SessionsPrunedTotal.Add(2)

	_, body2 := get(t, "http://"+addr+"/metrics")
	for _, want := range []string{
		"wink_links_created_total",
		"wink_redirects_total",
		"wink_signups_total",
		"wink_logins_total",
		"wink_sessions_pruned_total",
	} {
		if !strings.Contains(body2, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestServer_LivenessReturns200(t *testing.T) {
	server := startServer(t, nil)

	status, body := get(t, "http://"+server.Addr()+"/healthz/liveness")
	if status != http.StatusOK {
		t.Errorf("expected status 200, got %d", status)
	}
	if strings.TrimSpace(body) != "ok" {
		t.Errorf("expected body 'ok', got %q", body)
	}
}

func TestServer_ReadinessWhenReady(t *testing.T) {
	server := startServer(t, func() bool { return true })

	status, body := get(t, "http://"+server.Addr()+"/healthz/readiness")
	if status != http.StatusOK {
		t.Errorf("expected status 200, got %d", status)
	}
	if strings.TrimSpace(body) != "ok" {
		t.Errorf("expected body 'ok', got %q", body)
	}
}

func TestServer_ReadinessWhenNotReady(t *testing.T) {
	server := startServer(t, func() bool { return false })

	status, body := get(t, "http://"+server.Addr()+"/healthz/readiness")
	if status != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", status)
	}
	if strings.TrimSpace(body) != "not ready" {
		t.Errorf("expected body 'not ready', got %q", body)
	}
}

func TestServer_ReadinessWithNilChecker(t *testing.T) {
	server := startServer(t, nil)

	status, _ := get(t, "http://"+server.Addr()+"/healthz/readiness")
	if status != http.StatusOK {
		t.Errorf("expected status 200 with nil checker, got %d", status)
	}
}

func TestServer_DoubleStartFails(t *testing.T) {
	server := startServer(t, nil)

	if _, err := server.Start(); err == nil {
		t.Error("expected error on double start, got nil")
	}
}

func TestServer_StopIdempotent(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		t.Errorf("stop without start should not error: %v", err)
	}
}

func TestServer_StartStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := NewServer("127.0.0.1:0", nil)
	if _, err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		t.Fatalf("failed to stop server: %v", err)
	}
}
