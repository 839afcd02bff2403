// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	authpg "github.com/gowink/wink/internal/auth/postgres"
	"github.com/gowink/wink/internal/config"
	"github.com/gowink/wink/internal/store"
)

// NewCleanupCmd creates the cleanup subcommand.
func NewCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired sessions",
		Long: `Delete all expired sessions from the database. The server also
sweeps expired sessions periodically; this command is for one-shot or
scheduled runs.`,
		RunE: runCleanup,
	}
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database_url is required (config file or DATABASE_URL)")
	}

	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	pruned, err := authpg.NewSessionRepository(st.Pool()).DeleteExpired(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Deleted %d expired session(s)\n", pruned)
	return nil
}
