// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

// registerCmd creates a new storefront account.
var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create an account with email and password",
	Long: `The register command creates a storefront account, signs you in, sends a
verification email and registers your profile with the storefront backend.

Missing values are prompted for when running in a terminal.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		for _, q := range []struct {
			dst    *string
			flag   string
			msg    string
			secret bool
		}{
			{&registerName, "name", "Name:", false},
			{&registerEmail, "email", "Email:", false},
			{&registerPassword, "password", "Password:", true},
		} {
			if err := askString(q.dst, q.flag, q.msg, q.secret); err != nil {
				return err
			}
		}

		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.client.RegisterWithEmailAndPassword(ctx, registerName, registerEmail, registerPassword); err != nil {
			return alreadyReported(err)
		}
		fmt.Printf("✅ Account created for %s. Check your inbox to verify your email.\n", registerEmail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")
}
