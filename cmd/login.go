// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fashionstore/cli/internal/session"
)

var (
	loginGoogle   bool
	loginEmail    string
	loginPassword string
)

// loginCmd signs in with Google or with email and password.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth", "signin"},
	Short:   "Sign in with Google or email and password",
	Long: `The login command signs you in to the storefront and stores the session token in
the configured session store (OS keychain by default).

With --google a browser window opens for Google sign-in; the CLI waits for the
consent to come back on a local callback. Otherwise the email and password are
taken from flags or prompted for. On success the storefront product page is opened.

If a session token is already stored the command reports it and does nothing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		// If already logged in, short-circuit
		if c.client.IsUserLoggedIn() {
			fmt.Printf("Already logged in as %s\n", c.accountLabel())
			return nil
		}

		if loginGoogle {
			err = withSpinner("Waiting for Google sign-in in your browser", func() error {
				return c.client.SignInWithGoogle(ctx)
			})
		} else {
			if err := askString(&loginEmail, "email", "Email:", false); err != nil {
				return err
			}
			if err := askString(&loginPassword, "password", "Password:", true); err != nil {
				return err
			}
			err = c.client.LogInWithEmailAndPassword(ctx, loginEmail, loginPassword)
		}
		if err != nil {
			return alreadyReported(err)
		}

		fmt.Println(getRandomLoginGreeting(c.accountLabel()))
		return nil
	},
}

// accountLabel names the signed-in account for messages: profile email, then token
// email, then the stored user id.
func (c *container) accountLabel() string {
	if p, err := c.client.GetUserProfile(); err == nil && p.Email != "" {
		return p.Email
	}
	if tok, err := c.client.Token(); err == nil && tok != "" {
		if claims, err := session.ParseClaims(tok); err == nil && claims.Email != "" {
			return claims.Email
		}
	}
	if uid, err := c.client.UserID(); err == nil && uid != "" {
		return uid
	}
	return "user"
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "Sign in with Google in the browser")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}
