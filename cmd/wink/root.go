// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the wink CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wink",
		Short: "Wink - a link shortener",
		Long: `Wink is a link shortening service with user accounts,
session-based ownership, and per-link hit counting.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCleanupCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
