package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fashionstore/cli/internal/session"
)

// whoamiCmd shows the stored session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command reports whether a session token is stored and shows what
it says about the account: user id, email and expiry. The token is decoded
locally and is not verified; use 'fashionstore refresh' to renew it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		if !c.client.IsUserLoggedIn() {
			notLoggedIn()
			return nil
		}

		tok, _ := c.client.Token()
		uid, _ := c.client.UserID()
		rows := pterm.TableData{{"user id", uid}}

		if claims, err := session.ParseClaims(tok); err == nil {
			if claims.Email != "" {
				rows = append(rows, []string{"email", claims.Email})
			}
			if claims.Name != "" {
				rows = append(rows, []string{"name", claims.Name})
			}
			rows = append(rows, []string{"email verified", fmt.Sprint(claims.EmailVerified)})
			if claims.ExpiresAt != nil {
				state := "valid"
				if claims.Expired(time.Now()) {
					state = "expired, run 'fashionstore refresh'"
				}
				rows = append(rows, []string{"token expires", claims.ExpiresAt.Local().Format(time.RFC1123) + " (" + state + ")"})
			}
		} else {
			c.log.Debug("stored token is not a JWT", "err", err)
		}

		fmt.Printf("👤 Current user: %s\n", c.accountLabel())
		return pterm.DefaultTable.WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
