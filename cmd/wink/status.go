// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package main

import (
	"encoding/json"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gowink/wink/internal/config"
	"github.com/gowink/wink/internal/store"
)

// StatusReport holds the database status for the status command.
type StatusReport struct {
	DatabaseReachable bool   `json:"database_reachable"`
	MigrationVersion  uint   `json:"migration_version"`
	Dirty             bool   `json:"dirty"`
	PendingMigrations []uint `json:"pending_migrations,omitempty"`
	Error             string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and migration status",
		Long:  `Show database connectivity, the current migration version, and pending migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if appCfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database_url is required (config file or DATABASE_URL)")
	}

	report := buildStatusReport(cmd, appCfg.DatabaseURL)

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
		}
		cmd.Println(string(data))
		return nil
	}

	if !report.DatabaseReachable {
		cmd.Printf("database:   unreachable (%s)\n", report.Error)
		return nil
	}
	cmd.Println("database:   ok")
	cmd.Printf("migrations: version %d (dirty=%t)\n", report.MigrationVersion, report.Dirty)
	if len(report.PendingMigrations) > 0 {
		cmd.Printf("pending:    %v\n", report.PendingMigrations)
	} else {
		cmd.Println("pending:    none")
	}
	return nil
}

// buildStatusReport probes the database and migration state. Failures are
// reported in the result rather than returned; status is a diagnostic view.
func buildStatusReport(cmd *cobra.Command, databaseURL string) StatusReport {
	var report StatusReport

	ctx := cmd.Context()

	st, err := store.Open(ctx, databaseURL)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		report.Error = err.Error()
		return report
	}
	report.DatabaseReachable = true

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Debug("error closing migrator", "error", closeErr)
		}
	}()

	report.MigrationVersion, report.Dirty, err = migrator.Version()
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.PendingMigrations, err = migrator.PendingMigrations()
	if err != nil {
		report.Error = err.Error()
	}
	return report
}
