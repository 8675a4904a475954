package comments

import (
	"context"
	"errors"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/notify"
)

// ErrSubmitInFlight is returned when a composer is submitted while a prior
// submission is still pending. Controls stay disabled for the duration of an
// in-flight request; the request itself is never aborted.
var ErrSubmitInFlight = errors.New("submission already in progress")

// Composer is the ephemeral inline reply form attached to one comment's
// author. It holds the draft text and its busy flag; its state dies with it
// when the host discards it.
type Composer struct {
	ReplyTo api.User

	content string
	busy    bool
}

// SetContent replaces the draft text.
func (c *Composer) SetContent(text string) { c.content = text }

// Content returns the draft text.
func (c *Composer) Content() string { return c.content }

// Busy reports whether a submission is in flight.
func (c *Composer) Busy() bool { return c.busy }

// Host owns the at-most-one-composer invariant: opening a new composer
// removes any existing one unconditionally, last action wins.
type Host struct {
	svc    *Service
	active *Composer
}

// NewHost creates a composer host over the given service.
func NewHost(svc *Service) *Host {
	return &Host{svc: svc}
}

// Open attaches a fresh composer replying to the given user, discarding any
// previous composer along with its draft.
func (h *Host) Open(replyTo api.User) *Composer {
	h.active = &Composer{ReplyTo: replyTo}
	return h.active
}

// Active returns the current composer, or nil.
func (h *Host) Active() *Composer { return h.active }

// Submit sends the active composer's draft as a reply and re-fetches the
// list. On success the composer is removed and, if the server marked the
// comment pending, a non-blocking moderation notice is raised. On failure
// the composer stays with its text intact and editable, and the error is
// surfaced as a transient notice.
func (h *Host) Submit(ctx context.Context, slug string, notifier notify.Notifier) ([]api.Comment, error) {
	c := h.active
	if c == nil {
		return nil, errors.New("no reply in progress")
	}
	if c.busy {
		return nil, ErrSubmitInFlight
	}

	c.busy = true
	status, err := h.svc.Reply(ctx, slug, c.content, c.ReplyTo.ID)
	if err != nil {
		c.busy = false
		if !errors.Is(err, ErrEmptyContent) {
			notifier.Notify(notify.Error, api.UserMessage(err))
		}
		return nil, err
	}

	h.active = nil
	if status == api.StatusPending {
		notifier.Notify(notify.Success, "reply submitted, it will appear after moderation")
	}
	return h.svc.List(ctx, slug)
}
