package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/session"
)

const oauthTimeout = 5 * time.Minute

// RunGitHubOAuth performs the browser OAuth round-trip: it starts a loopback
// callback server, records the redirect target in the session store, opens
// the provider's login URL, and waits for the redirect back carrying
// ?token=<token>. The token never appears in any URL the user keeps.
func RunGitHubOAuth(ctx context.Context, client *api.Client, store *session.Store) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("starting callback server: %w", err)
	}
	redirectURL := fmt.Sprintf("http://127.0.0.1:%d/callback", listener.Addr().(*net.TCPAddr).Port)

	if err := store.SetRedirect(redirectURL); err != nil {
		listener.Close()
		return "", fmt.Errorf("recording redirect target: %w", err)
	}

	tokenCh := make(chan string, 1)
	errCh := make(chan error, 1)

	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		token := req.URL.Query().Get("token")
		if token == "" {
			errMsg := req.URL.Query().Get("error")
			if errMsg == "" {
				errMsg = "no token received"
			}
			fmt.Fprintf(w, "<html><body><h2>Login failed</h2><p>%s</p><p>You can close this tab.</p></body></html>", errMsg)
			errCh <- fmt.Errorf("OAuth callback error: %s", errMsg)
			return
		}
		fmt.Fprint(w, "<html><body><h2>Login successful!</h2><p>You can close this tab and return to the terminal.</p></body></html>")
		tokenCh <- token
	})

	server := &http.Server{Handler: r}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()
	defer server.Close()

	loginURL := client.GitHubLoginURL(redirectURL)
	fmt.Printf("\nOpening browser for GitHub login...\nIf it does not open, visit:\n%s\n\n", loginURL)
	openBrowser(loginURL)

	select {
	case token := <-tokenCh:
		// Redirect round-trip complete.
		if _, err := store.TakeRedirect(); err != nil {
			return "", err
		}
		return token, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(oauthTimeout):
		return "", fmt.Errorf("login timed out after %s", oauthTimeout)
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
