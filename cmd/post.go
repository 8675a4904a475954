package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/comments"
	"github.com/yijhen/sakura-comments/internal/notify"
)

var postMessage string

var postCmd = &cobra.Command{
	Use:   "post [slug]",
	Short: "Post a top-level comment",
	Long: `Post a new comment on a post. The text comes from --message or, when
omitted, from stdin. A restricted markdown subset is supported: inline code,
bold, italic, links, line breaks.

If the submission fails, the text is kept as a local draft
(see 'sakura-comments drafts').`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().StringVarP(&postMessage, "message", "m", "", "comment text")
}

func runPost(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	slug, err := app.slugArg(args)
	if err != nil {
		return err
	}
	if err := app.requireAuth(cmd.Context()); err != nil {
		return err
	}

	content := postMessage
	if content == "" {
		fmt.Fprintln(os.Stderr, "Enter your comment, end with Ctrl-D:")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading comment text: %w", err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		return comments.ErrEmptyContent
	}

	status, err := app.svc.Post(cmd.Context(), slug, content)
	if err != nil {
		app.notifier.Notify(notify.Error, api.UserMessage(err))
		return saveDraft(app, slug, content, 0, err)
	}
	if status == api.StatusPending {
		app.notifier.Notify(notify.Success, "comment submitted, it will appear after moderation")
	}

	// The server's view of the list is authoritative; re-fetch instead of
	// inserting locally.
	renderer := comments.NewRenderer(os.Stdout)
	list, fetchErr := app.svc.List(cmd.Context(), slug)
	renderer.List(list, fetchErr)
	return nil
}

// saveDraft preserves failed submission text locally so it can be retried
// later. Validation failures are not drafts.
func saveDraft(app *app, slug, content string, replyTo int64, cause error) error {
	if errors.Is(cause, comments.ErrEmptyContent) {
		return cause
	}
	store, err := app.openDrafts()
	if err != nil {
		return cause
	}
	defer store.Close()

	d, err := store.Save(slug, strings.TrimSpace(content), replyTo)
	if err != nil {
		return cause
	}
	app.notifier.Notify(notify.Info, fmt.Sprintf("text saved as draft %s; retry with 'sakura-comments drafts send %s'", d.ID, d.ID))
	return cause
}
