// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"fashionstore/cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

// configInitCmd writes a config file from prompted answers.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file interactively",
	Long: `The init command asks for the Firebase project, the storefront URLs and the
session backend, and writes them to the config file. Secrets such as the Google
client secret or the redis password are not written; set them in the environment
(FASHIONSTORE_GOOGLE_CLIENT_SECRET, FASHIONSTORE_REDIS_PASSWORD) or a .env file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if !interactive() {
			return errors.New("config init needs a terminal; edit the config file directly instead")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		answers := struct {
			AuthDomain string
			APIKey     string
			ClientID   string
			BackendURL string
			AppURL     string
			Backend    string
		}{}
		qs := []*survey.Question{
			{Name: "AuthDomain", Prompt: &survey.Input{Message: "Firebase auth domain:", Default: cfg.Firebase.AuthDomain}},
			{Name: "APIKey", Prompt: &survey.Input{Message: "Firebase web API key (blank to resolve from the auth domain):", Default: cfg.Firebase.APIKey}},
			{Name: "ClientID", Prompt: &survey.Input{Message: "Google OAuth client id (blank disables Google sign-in):", Default: cfg.Google.ClientID}},
			{Name: "BackendURL", Prompt: &survey.Input{Message: "Backend API URL:", Default: cfg.Backend.URL}, Validate: survey.Required},
			{Name: "AppURL", Prompt: &survey.Input{Message: "Storefront URL:", Default: cfg.App.URL}, Validate: survey.Required},
			{Name: "Backend", Prompt: &survey.Select{
				Message: "Session store:",
				Options: []string{config.SessionKeychain, config.SessionFile, config.SessionRedis},
				Default: cfg.Session.Backend,
			}},
		}
		if err := survey.Ask(qs, &answers); err != nil {
			return err
		}

		cfg.Firebase.AuthDomain = answers.AuthDomain
		cfg.Firebase.APIKey = answers.APIKey
		cfg.Google.ClientID = answers.ClientID
		cfg.Backend.URL = answers.BackendURL
		cfg.App.URL = answers.AppURL
		cfg.Session.Backend = answers.Backend
		if cfg.Session.Backend == config.SessionRedis && cfg.Session.RedisAddr == "" {
			cfg.Session.RedisAddr = "127.0.0.1:6379"
			if err := survey.AskOne(&survey.Input{Message: "Redis address:", Default: cfg.Session.RedisAddr}, &cfg.Session.RedisAddr); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		path := configPath
		if path == "" {
			if path, err = config.Path(); err != nil {
				return err
			}
		}
		if err := config.SaveTo(path, cfg); err != nil {
			return err
		}
		fmt.Printf("✅ Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
