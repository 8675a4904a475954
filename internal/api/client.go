// Package api is the HTTP boundary to the remote comments service. It speaks
// the service's JSON wire contract and nothing else: no retries, no caching,
// no request ordering. Callers decide when to retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the comments API at a fixed base URL. A zero token means the
// call is made anonymously; authenticated endpoints attach it as a bearer.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a Client for the API at baseURL (e.g. "https://example.com/api").
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token attached to authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Host returns the hostname portion of the API base URL, or "" if the URL
// does not parse.
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Me validates the current token and returns the server's user snapshot.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SendOTP requests a one-time passcode email. turnstileToken may be empty in
// a trusted local context; the gate decides, not the client.
func (c *Client) SendOTP(ctx context.Context, email, displayName, turnstileToken string) error {
	req := sendOTPRequest{Email: email, DisplayName: displayName, TurnstileToken: turnstileToken}
	return c.do(ctx, http.MethodPost, "/auth/otp/send", req, false, nil)
}

// VerifyOTP exchanges an emailed code for a session token and user snapshot.
func (c *Client) VerifyOTP(ctx context.Context, email, code, displayName string) (*VerifyResult, error) {
	req := verifyOTPRequest{Email: email, Code: code, DisplayName: displayName}
	var resp VerifyResult
	if err := c.do(ctx, http.MethodPost, "/auth/otp/verify", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListComments fetches the full flat comment list for a post. The server's
// ordering is authoritative and preserved.
func (c *Client) ListComments(ctx context.Context, slug string) ([]Comment, error) {
	var resp listCommentsResponse
	path := "/comments?slug=" + url.QueryEscape(slug)
	if err := c.do(ctx, http.MethodGet, path, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// PostComment submits a comment. replyToUserID of zero means a top-level
// comment; non-zero records reply-to-person (not reply-to-comment) intent.
// It returns the moderation status the server assigned.
func (c *Client) PostComment(ctx context.Context, slug, content string, replyToUserID int64) (CommentStatus, error) {
	req := postCommentRequest{PostSlug: slug, Content: content, ReplyToUserID: replyToUserID}
	var resp postCommentResponse
	if err := c.do(ctx, http.MethodPost, "/comments", req, true, &resp); err != nil {
		return "", err
	}
	return resp.Comment.Status, nil
}

// GitHubLoginURL returns the browser URL that starts the OAuth flow. The
// provider redirects back to redirect with ?token=<token> appended.
func (c *Client) GitHubLoginURL(redirect string) string {
	return c.baseURL + "/auth/github/login?redirect=" + url.QueryEscape(redirect)
}

// do performs a single JSON request. Any non-2xx status becomes an *Error
// carrying the server's error field (or DefaultErrorMessage); transport
// failures are wrapped and returned as-is.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("comments API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		_ = json.Unmarshal(respBody, &errResp)
		msg := errResp.Error
		if msg == "" {
			msg = DefaultErrorMessage
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshalling response: %w", err)
		}
	}
	return nil
}
