// Package comments fetches, renders and submits post comments. Lists are
// flat: the server's order is kept and reply relationships are shown as an
// indicator only, never reconstructed into a tree.
package comments

import (
	"context"
	"errors"
	"strings"

	"github.com/yijhen/sakura-comments/internal/api"
)

// ErrEmptyContent is raised before any request when a submission has no
// non-whitespace content.
var ErrEmptyContent = errors.New("comment content is required")

// Client is the slice of the API the comments flow needs.
type Client interface {
	ListComments(ctx context.Context, slug string) ([]api.Comment, error)
	PostComment(ctx context.Context, slug, content string, replyToUserID int64) (api.CommentStatus, error)
}

// Service wraps comment listing and submission for one site.
type Service struct {
	client Client
}

// NewService creates a Service over the given API client.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// List fetches the full comment list for a post, in server order.
func (s *Service) List(ctx context.Context, slug string) ([]api.Comment, error) {
	return s.client.ListComments(ctx, slug)
}

// Post submits a top-level comment and returns the moderation status the
// server assigned. Callers re-fetch the list afterwards; the server's view
// of moderation state is authoritative, so nothing is inserted locally.
func (s *Service) Post(ctx context.Context, slug, content string) (api.CommentStatus, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	return s.client.PostComment(ctx, slug, content, 0)
}

// Reply submits a comment addressed to a user. The reference is to the
// person, not to a specific comment.
func (s *Service) Reply(ctx context.Context, slug, content string, replyToUserID int64) (api.CommentStatus, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	return s.client.PostComment(ctx, slug, content, replyToUserID)
}
