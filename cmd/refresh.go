package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// refreshCmd renews the stored token and reloads the profile.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Renew the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.client.ReloadUser(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✅ Session refreshed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
