package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists; edit it or remove it first", cfgFile)
		}
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
