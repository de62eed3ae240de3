// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fashionstore/cli/internal/auth"
)

var (
	profileName     string
	profileEmail    string
	profilePassword string
)

// profileCmd shows the signed-in user's profile.
var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"me"},
	Short:   "Show your name and email",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		p, err := c.client.GetUserProfile()
		if err != nil {
			notLoggedIn()
			return nil
		}
		return pterm.DefaultTable.WithData(pterm.TableData{
			{"name", p.Name},
			{"email", p.Email},
		}).Render()
	},
}

// profileUpdateCmd edits the profile. Flags left unset keep their current value.
var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name, email or password",
	Long: `The update command sets your display name, and changes your email and password
when given. A new email must be verified again; a verification link is sent to it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		current, err := c.client.GetUserProfile()
		if err != nil {
			notLoggedIn()
			return nil
		}

		upd := auth.ProfileUpdate{Name: current.Name, Email: current.Email, Password: profilePassword}
		if cmd.Flags().Changed("name") {
			upd.Name = profileName
		}
		if cmd.Flags().Changed("email") {
			upd.Email = profileEmail
		}

		if err := c.client.UpdateProfile(ctx, upd); err != nil {
			return err
		}
		fmt.Println("✅ Profile updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "New email (requires verification)")
	profileUpdateCmd.Flags().StringVar(&profilePassword, "password", "", "New password")
}
