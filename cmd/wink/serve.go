// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gowink/wink/internal/app"
	"github.com/gowink/wink/internal/auth"
	authpg "github.com/gowink/wink/internal/auth/postgres"
	"github.com/gowink/wink/internal/config"
	"github.com/gowink/wink/internal/link"
	linkpg "github.com/gowink/wink/internal/link/postgres"
	"github.com/gowink/wink/internal/logging"
	"github.com/gowink/wink/internal/observability"
	"github.com/gowink/wink/internal/store"
)

// sessionPruneInterval is how often the server sweeps expired sessions.
// Validation already rejects expired sessions; the sweep only reclaims rows.
const sessionPruneInterval = time.Hour

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Wink HTTP server",
		Long: `Start the HTTP server which handles short-link redirects and the
JSON API for accounts, sessions, and link management.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd)
		},
	}

	// Nested settings (auth.*, links.*) are config-file only.
	flags := cmd.Flags()
	flags.String("database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
	flags.String("listen-addr", config.DefaultListenAddr, "HTTP listen address")
	flags.String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("base-url", config.DefaultBaseURL, "public base URL for rendering short links")
	flags.String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database_url is required (flag, config file, or DATABASE_URL)")
	}

	logging.SetDefault(version, cfg.LogFormat)

	slog.Info("starting wink",
		"listen_addr", cfg.ListenAddr,
		"base_url", cfg.BaseURL,
		"log_format", cfg.LogFormat,
	)

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	hasher, err := auth.NewHasher(cfg.Auth.SaltLength)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(st.Pool()),
		authpg.NewSessionRepository(st.Pool()),
		hasher,
		cfg.Auth.SessionLifetime,
		slog.Default(),
	)
	if err != nil {
		return err
	}
	registry, err := link.NewRegistry(
		linkpg.NewLinkRepository(st.Pool()),
		authSvc,
		cfg.Links.CodeLength,
		cfg.Links.MaxCodeAttempts,
		slog.Default(),
	)
	if err != nil {
		return err
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return st.Ping(pingCtx) == nil
		})
		obsErrChan, obsErr := obsServer.Start()
		if obsErr != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(obsErr)
		}
		// Monitor observability server errors - cancel context on error
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
	}

	application, err := app.New(authSvc, registry, cfg.BaseURL, metrics)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return oops.Code("LISTEN_FAILED").With("addr", cfg.ListenAddr).Wrap(err)
	}

	httpSrv := &http.Server{
		Handler:           newHandler(application),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	go pruneSessions(ctx, authSvc, metrics)

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Wink started")
	slog.Info("wink ready", "addr", listener.Addr().String())

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errChan:
		return oops.Code("HTTP_SERVER_FAILED").Wrap(err)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error stopping http server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// pruneSessions periodically deletes expired sessions until ctx is cancelled.
func pruneSessions(ctx context.Context, svc *auth.Service, metrics *observability.Metrics) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned, err := svc.PruneExpired(ctx)
			if err != nil {
				slog.Warn("session cleanup failed", "error", err)
				continue
			}
			if metrics != nil {
				metrics.SessionsPrunedTotal.Add(float64(pruned))
			}
			if pruned > 0 {
				slog.Info("pruned expired sessions", "count", pruned)
			}
		}
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
