// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the fashionstore CLI.
// It implements sign-in, registration, session and profile subcommands using the
// Cobra CLI framework, with pterm output and survey prompts.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fashionstore/cli/internal/config"
	apperrors "fashionstore/cli/internal/errors"
	"fashionstore/cli/internal/httperrors"
	"fashionstore/cli/internal/logging"
)

var (
	showVersion bool
	verbose     bool
	configPath  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "fashionstore",
	Short:         "Sign in to the fashionstore storefront from the terminal",
	Long:          `fashionstore manages your storefront account session: sign in with Google or email and password, register, reset your password and edit your profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("fashionstore %s\n", Version)
			if cfg, err := loadConfig(); err == nil {
				project := cfg.Firebase.ProjectID
				if project == "" {
					project = cfg.Firebase.AuthDomain
				}
				if project != "" {
					fmt.Printf("firebase project %s\n", project)
				}
				fmt.Printf("backend %s\n", cfg.Backend.URL)
			}
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Auth operations already notified the user; only print what was not shown.
		switch {
		case reported(err):
		case httperrors.Classify(err) != httperrors.ClassOther:
			_ = httperrors.FormatNetworkError(err, "talking to the sign-in service")
		default:
			pterm.Error.Println(apperrors.Message(err))
		}
		os.Exit(1)
	}
}

// newLogger builds the diagnostic logger; --verbose forces debug level.
func newLogger(cfg config.Config) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(level, os.Stderr)
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and configured project")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/fashionstore/config.yaml)")
}
