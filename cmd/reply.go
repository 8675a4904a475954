package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/comments"
)

var replyCmd = &cobra.Command{
	Use:   "reply [slug]",
	Short: "Reply to a comment's author",
	Long: `Pick a comment from the post and reply to its author. Replies address a
person, not a specific comment: the list stays flat and shows a
"replying to" indicator.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReply,
}

func init() {
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
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

	list, err := app.svc.List(cmd.Context(), slug)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No comments to reply to.")
		return nil
	}

	host := comments.NewHost(app.svc)
	composer, err := pickAndCompose(host, list)
	if err != nil {
		return err
	}
	if composer == nil {
		return nil // cancelled
	}

	updated, err := host.Submit(cmd.Context(), slug, app.notifier)
	if err != nil {
		return saveDraft(app, slug, composer.Content(), composer.ReplyTo.ID, err)
	}

	comments.NewRenderer(os.Stdout).List(updated, nil)
	return nil
}

// pickAndCompose lets the user pick a comment and write the reply. Picking a
// different comment opens a fresh composer, discarding the previous one.
func pickAndCompose(host *comments.Host, list []api.Comment) (*comments.Composer, error) {
	for {
		idx, err := pickComment(list)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, nil
		}

		composer := host.Open(list[idx].User)
		textPrompt := promptui.Prompt{
			Label: fmt.Sprintf("Reply to %s (empty to pick another comment)", composer.ReplyTo.DisplayName),
		}
		text, err := textPrompt.Run()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		composer.SetContent(text)
		return composer, nil
	}
}

func pickComment(list []api.Comment) (int, error) {
	items := make([]string, 0, len(list)+1)
	for _, c := range list {
		preview := c.Content
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		items = append(items, fmt.Sprintf("%s: %s", c.User.DisplayName, preview))
	}
	items = append(items, "Cancel")

	sel := promptui.Select{
		Label: "Reply to which comment",
		Items: items,
		Size:  10,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return 0, err
	}
	if idx == len(list) {
		return -1, nil
	}
	return idx, nil
}
