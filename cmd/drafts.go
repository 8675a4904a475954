package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/notify"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage comment drafts saved after failed submissions",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		store, err := app.openDrafts()
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No drafts.")
			return nil
		}
		for _, d := range list {
			target := "top-level"
			if d.ReplyToUserID != 0 {
				target = fmt.Sprintf("reply to user %d", d.ReplyToUserID)
			}
			fmt.Printf("%s  %s  (%s, %s)\n    %s\n", d.ID, d.PostSlug, target, d.CreatedAt.Format("2006-01-02 15:04"), d.Content)
		}
		return nil
	},
}

var draftsSendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Submit a saved draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}
		store, err := app.openDrafts()
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := store.Get(args[0])
		if err != nil {
			return fmt.Errorf("draft %s not found", args[0])
		}

		var status api.CommentStatus
		if d.ReplyToUserID != 0 {
			status, err = app.svc.Reply(cmd.Context(), d.PostSlug, d.Content, d.ReplyToUserID)
		} else {
			status, err = app.svc.Post(cmd.Context(), d.PostSlug, d.Content)
		}
		if err != nil {
			app.notifier.Notify(notify.Error, api.UserMessage(err))
			return err
		}

		if err := store.Delete(d.ID); err != nil {
			return err
		}
		if status == api.StatusPending {
			app.notifier.Notify(notify.Success, "comment submitted, it will appear after moderation")
		} else {
			app.notifier.Notify(notify.Success, "comment submitted")
		}
		return nil
	},
}

var draftsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		store, err := app.openDrafts()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("Draft deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(draftsCmd)
	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsSendCmd)
	draftsCmd.AddCommand(draftsRmCmd)
}
