package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/notify"
)

// recordingNotifier captures transient notices.
type recordingNotifier struct {
	kinds    []notify.Kind
	messages []string
}

func (n *recordingNotifier) Notify(kind notify.Kind, message string) {
	n.kinds = append(n.kinds, kind)
	n.messages = append(n.messages, message)
}

func TestOpenReplacesExistingComposer(t *testing.T) {
	h := NewHost(NewService(&fakeClient{}))

	first := h.Open(api.User{ID: 1, DisplayName: "A"})
	first.SetContent("half-written reply")

	second := h.Open(api.User{ID: 2, DisplayName: "B"})
	if h.Active() != second {
		t.Fatal("second composer must be the only active one")
	}
	if h.Active() == first {
		t.Fatal("first composer must be discarded unconditionally")
	}
	if second.Content() != "" {
		t.Error("new composer must start empty")
	}
}

func TestSubmitSuccessRemovesComposerAndReloads(t *testing.T) {
	client := &fakeClient{
		postStatus: api.StatusVisible,
		list:       []api.Comment{{ID: 1}, {ID: 2}},
	}
	h := NewHost(NewService(client))
	n := &recordingNotifier{}

	c := h.Open(api.User{ID: 7, DisplayName: "A"})
	c.SetContent("a reply")

	list, err := h.Submit(context.Background(), "slug", n)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if h.Active() != nil {
		t.Error("composer must be removed after success")
	}
	if client.listCalls != 1 || len(list) != 2 {
		t.Error("successful submit must re-fetch the full list")
	}
	if client.posts[0].replyTo != 7 {
		t.Errorf("replyTo = %d, want 7", client.posts[0].replyTo)
	}
	if len(n.kinds) != 0 {
		t.Errorf("no notice expected for a visible comment, got %v", n.messages)
	}
}

func TestSubmitPendingRaisesModerationNotice(t *testing.T) {
	client := &fakeClient{postStatus: api.StatusPending}
	h := NewHost(NewService(client))
	n := &recordingNotifier{}

	c := h.Open(api.User{ID: 1})
	c.SetContent("a reply")

	if _, err := h.Submit(context.Background(), "slug", n); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(n.kinds) != 1 || n.kinds[0] != notify.Success {
		t.Fatalf("expected one success notice, got %v", n.kinds)
	}
}

func TestSubmitFailureKeepsComposerAndText(t *testing.T) {
	client := &fakeClient{postErr: &api.Error{StatusCode: 500, Message: "storage down"}}
	h := NewHost(NewService(client))
	n := &recordingNotifier{}

	c := h.Open(api.User{ID: 1})
	c.SetContent("precious words")

	_, err := h.Submit(context.Background(), "slug", n)
	if err == nil {
		t.Fatal("expected error")
	}
	if h.Active() != c {
		t.Error("composer must survive a failed submit")
	}
	if c.Content() != "precious words" {
		t.Error("entered text must be kept on failure")
	}
	if c.Busy() {
		t.Error("composer must be editable again after failure")
	}
	if client.listCalls != 0 {
		t.Error("failed submit must not reload the list")
	}
	if len(n.kinds) != 1 || n.kinds[0] != notify.Error || n.messages[0] != "storage down" {
		t.Errorf("expected the server message verbatim, got %v", n.messages)
	}
}

func TestSubmitEmptyContentIsLocalValidation(t *testing.T) {
	client := &fakeClient{}
	h := NewHost(NewService(client))
	n := &recordingNotifier{}

	h.Open(api.User{ID: 1}).SetContent("   ")
	_, err := h.Submit(context.Background(), "slug", n)
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if len(client.posts) != 0 {
		t.Error("validation failure must not reach the network")
	}
}
