package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/auth"
	"github.com/yijhen/sakura-comments/internal/botcheck"
	"github.com/yijhen/sakura-comments/internal/notify"
	"github.com/yijhen/sakura-comments/internal/otp"
)

var loginGitHub bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a one-time email code or GitHub",
	Long: `Log in to the comments service.

By default this requests a one-time code by email and verifies it. On public
API hosts a Cloudflare Turnstile challenge is completed in your browser
before a code can be sent; loopback hosts skip it.

With --github, a browser OAuth round-trip is used instead.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVar(&loginGitHub, "github", false, "log in via GitHub OAuth")
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if app.auth.Resolve(ctx) == auth.StateAuthenticated {
		fmt.Printf("Already logged in as %s.\n", app.auth.User().DisplayName)
		return nil
	}

	if loginGitHub {
		return runGitHubLogin(ctx, app)
	}
	return runOTPLogin(ctx, app)
}

func runGitHubLogin(ctx context.Context, app *app) error {
	token, err := auth.RunGitHubOAuth(ctx, app.client, app.store)
	if err != nil {
		return err
	}

	state, err := app.auth.AdoptToken(ctx, token)
	if err != nil {
		return err
	}
	if state != auth.StateAuthenticated {
		return fmt.Errorf("the received token was rejected by the server")
	}
	fmt.Printf("Logged in as %s.\n", app.auth.User().DisplayName)
	return nil
}

func runOTPLogin(ctx context.Context, app *app) error {
	emailPrompt := promptui.Prompt{
		Label: "Email",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("email is required")
			}
			return nil
		},
	}
	email, err := emailPrompt.Run()
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	namePrompt := promptui.Prompt{Label: "Display name", Default: ""}
	displayName, err := namePrompt.Run()
	if err != nil {
		return err
	}
	displayName = strings.TrimSpace(displayName)

	gate := botcheck.ForHost(app.client.Host(), app.cfg.TurnstileSiteKey)
	defer gate.Close()

	flow := otp.NewFlow(app.client, gate)
	defer flow.Reset()

	if err := acquireChallenge(ctx, app, gate); err != nil {
		return err
	}
	if err := flow.Start(ctx, email, displayName); err != nil {
		app.notifier.Notify(notify.Error, api.UserMessage(err))
		return err
	}
	app.notifier.Notify(notify.Success, fmt.Sprintf("verification code sent to %s", email))

	for {
		codePrompt := promptui.Prompt{Label: "Verification code"}
		code, err := codePrompt.Run()
		if err != nil {
			flow.Reset()
			return err
		}
		code = strings.TrimSpace(code)
		if code == "" {
			app.notifier.Notify(notify.Info, "enter the code from your email")
			continue
		}

		res, err := flow.Verify(ctx, code)
		if err == nil {
			if err := app.auth.Adopt(res.Token, &res.User); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", res.User.DisplayName)
			return nil
		}
		app.notifier.Notify(notify.Error, api.UserMessage(err))

		again, err := askRetry(flow)
		if err != nil {
			flow.Reset()
			return err
		}
		switch again {
		case retryCode:
			continue
		case retryResend:
			if err := resendCode(ctx, app, flow, gate); err != nil {
				app.notifier.Notify(notify.Error, api.UserMessage(err))
			} else {
				app.notifier.Notify(notify.Success, "verification code re-sent")
			}
		case retryCancel:
			flow.Reset()
			return nil
		}
	}
}

const (
	retryCode   = "Enter the code again"
	retryResend = "Resend the code"
	retryCancel = "Cancel"
)

func askRetry(flow *otp.Flow) (string, error) {
	resendLabel := retryResend
	if rem := flow.CooldownRemaining(); rem > 0 {
		resendLabel = fmt.Sprintf("%s (available in %ds)", retryResend, rem)
	}
	sel := promptui.Select{
		Label: "Verification failed",
		Items: []string{retryCode, resendLabel, retryCancel},
	}
	idx, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return []string{retryCode, retryResend, retryCancel}[idx], nil
}

// resendCode waits out the cooldown, reacquires a challenge token when the
// gate requires one, and asks for a fresh code.
func resendCode(ctx context.Context, app *app, flow *otp.Flow, gate botcheck.Gate) error {
	waitForCooldown(flow)

	if gate.Required() && gate.Token() == "" {
		app.notifier.Notify(notify.Info, "complete the verification in your browser to resend")
		if err := gate.Reset(); err != nil {
			return err
		}
		if err := acquireChallenge(ctx, app, gate); err != nil {
			return err
		}
	}
	return flow.Resend(ctx)
}

// acquireChallenge blocks until the bot-check gate holds a token, when one
// is required at all.
func acquireChallenge(ctx context.Context, app *app, gate botcheck.Gate) error {
	if !gate.Required() || gate.Token() != "" {
		return nil
	}
	app.notifier.Notify(notify.Info, "human verification required before a code can be sent")
	if _, err := gate.WaitToken(ctx); err != nil {
		return err
	}
	return nil
}

// waitForCooldown displays the remaining resend cooldown as a countdown bar
// and returns once resend is allowed.
func waitForCooldown(flow *otp.Flow) {
	total := flow.CooldownRemaining()
	if total == 0 {
		return
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("resend available in %ds", total)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	for {
		rem := flow.CooldownRemaining()
		if rem == 0 {
			break
		}
		bar.Describe(fmt.Sprintf("resend available in %ds", rem))
		_ = bar.Set(total - rem)
		time.Sleep(250 * time.Millisecond)
	}
	_ = bar.Finish()
}
