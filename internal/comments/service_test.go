package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/yijhen/sakura-comments/internal/api"
)

// fakeClient records submissions and serves a scripted list.
type fakeClient struct {
	list      []api.Comment
	listCalls int
	listErr   error

	posts      []postCall
	postStatus api.CommentStatus
	postErr    error
}

type postCall struct {
	slug    string
	content string
	replyTo int64
}

func (c *fakeClient) ListComments(ctx context.Context, slug string) ([]api.Comment, error) {
	c.listCalls++
	return c.list, c.listErr
}

func (c *fakeClient) PostComment(ctx context.Context, slug, content string, replyToUserID int64) (api.CommentStatus, error) {
	c.posts = append(c.posts, postCall{slug: slug, content: content, replyTo: replyToUserID})
	if c.postErr != nil {
		return "", c.postErr
	}
	return c.postStatus, nil
}

func TestPostTrimsContent(t *testing.T) {
	client := &fakeClient{postStatus: api.StatusVisible}
	svc := NewService(client)

	if _, err := svc.Post(context.Background(), "slug", "  hello  \n"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if client.posts[0].content != "hello" {
		t.Errorf("content = %q, want trimmed", client.posts[0].content)
	}
	if client.posts[0].replyTo != 0 {
		t.Errorf("top-level post must not carry a reply target")
	}
}

func TestPostRejectsEmptyContent(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	_, err := svc.Post(context.Background(), "slug", "   \n\t")
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if len(client.posts) != 0 {
		t.Error("validation failure must not reach the network")
	}
}

func TestReplyCarriesUserID(t *testing.T) {
	client := &fakeClient{postStatus: api.StatusPending}
	svc := NewService(client)

	status, err := svc.Reply(context.Background(), "slug", "hi there", 42)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if status != api.StatusPending {
		t.Errorf("status = %q", status)
	}
	if client.posts[0].replyTo != 42 {
		t.Errorf("replyTo = %d, want 42", client.posts[0].replyTo)
	}
}
