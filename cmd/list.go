package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/comments"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list [slug]",
	Short: "List a post's comments",
	Long: `Fetch and display the full comment list for a post, in the order the
server returns it. With --format html, a static HTML fragment matching the
theme's comment markup is written to stdout instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listFormat, "format", "text", "output format: text or html")
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	slug, err := app.slugArg(args)
	if err != nil {
		return err
	}

	// The session check runs first so the list request observes the same
	// auth state the rest of the command does.
	app.auth.Resolve(cmd.Context())

	renderer := comments.NewRenderer(os.Stdout)
	if listFormat == "text" {
		renderer.Loading()
	}

	list, fetchErr := app.svc.List(cmd.Context(), slug)

	switch listFormat {
	case "text":
		renderer.List(list, fetchErr)
		return fetchErr
	case "html":
		if fetchErr != nil {
			return fetchErr
		}
		fmt.Print(comments.ExportHTML(list, time.Now()))
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be text or html", listFormat)
	}
}
