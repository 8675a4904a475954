package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sakura-comments",
	Short: "Read and write blog comments from the terminal",
	Long: `sakura-comments is a client for the Sakura theme's comments service.

It logs in with a one-time email code or GitHub, lists a post's comments,
posts new comments and replies, and can export a comment list as a static
HTML fragment.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".sakura-comments.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
