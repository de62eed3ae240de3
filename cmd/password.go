// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resetEmail  string
	newPassword string
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Reset or change your password",
}

// passwordResetCmd emails a reset link.
var passwordResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Email a password reset link",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := askString(&resetEmail, "email", "Email:", false); err != nil {
			return err
		}
		c, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		return alreadyReported(c.client.SendPasswordReset(cmd.Context(), resetEmail))
	},
}

// passwordChangeCmd sets a new password for the signed-in user.
var passwordChangeCmd = &cobra.Command{
	Use:   "change",
	Short: "Change the password of the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := askString(&newPassword, "password", "New password:", true); err != nil {
			return err
		}
		c, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.client.UpdateUserPassword(cmd.Context(), newPassword); err != nil {
			return alreadyReported(err)
		}
		fmt.Println("✅ Password changed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwordCmd)
	passwordCmd.AddCommand(passwordResetCmd, passwordChangeCmd)
	passwordResetCmd.Flags().StringVar(&resetEmail, "email", "", "Account email")
	passwordChangeCmd.Flags().StringVar(&newPassword, "password", "", "New password (prompted when omitted)")
}
