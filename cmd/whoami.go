package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/auth"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		if app.auth.Resolve(cmd.Context()) != auth.StateAuthenticated {
			fmt.Println("Not logged in.")
			return nil
		}
		u := app.auth.User()
		fmt.Printf("%s <%s>\n", u.DisplayName, u.Email)
		if u.IsAdmin {
			fmt.Println("admin")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
