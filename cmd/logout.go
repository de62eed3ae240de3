// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fashionstore/cli/internal/keychain"
	"fashionstore/cli/internal/session"
)

var logoutAll bool

// logoutCmd ends the session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session token",
	Long: `The logout command signs out of the identity provider and removes the stored
session token, then opens the storefront home page. It is best-effort: the token
is removed even when the provider cannot be reached.

The stored user id is kept unless --all is given.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.client.Logout(cmd.Context()); err != nil {
			c.log.Warn("logout incomplete", "err", err)
		}

		if logoutAll {
			if km, ok := c.store.(*keychain.Manager); ok {
				_ = km.ClearAll(session.KeyAuthToken, session.KeyUserID)
			} else {
				_ = c.store.Remove(session.KeyUserID)
			}
		}

		fmt.Println("✅ Signed out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Also remove the stored user id")
}
