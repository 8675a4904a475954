package comments

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/yijhen/sakura-comments/internal/api"
)

// Renderer writes the comment list to a terminal. The three display states
// are mutually exclusive: loading, empty (which a fetch failure overrides
// with its own message), and populated with a count label.
type Renderer struct {
	W   io.Writer
	Now func() time.Time // defaults to time.Now
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w, Now: time.Now}
}

// Loading prints the loading state.
func (r *Renderer) Loading() {
	fmt.Fprintln(r.W, "Loading comments...")
}

// List prints the fetched comments, or the empty state. fetchErr marks the
// fetch as failed and overrides the empty-state message.
func (r *Renderer) List(list []api.Comment, fetchErr error) {
	if fetchErr != nil {
		fmt.Fprintln(r.W, "Failed to load comments, please try again.")
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(r.W, "No comments yet.")
		return
	}

	fmt.Fprintf(r.W, "%d comments\n\n", len(list))
	for i, c := range list {
		r.comment(i+1, c)
	}
}

func (r *Renderer) comment(n int, c api.Comment) {
	name := c.User.DisplayName
	if c.User.IsAdmin {
		name += " [admin]"
	}
	line := fmt.Sprintf("#%d  %s · %s", n, name, TimeAgo(c.CreatedAt, r.Now()))
	if c.IsPending() {
		line += " · awaiting moderation"
	}
	fmt.Fprintln(r.W, line)

	if c.ReplyToUser != nil {
		fmt.Fprintf(r.W, "    ↳ replying to %s\n", c.ReplyToUser.DisplayName)
	}
	fmt.Fprintf(r.W, "    %s\n\n", c.Content)
}

// TimeAgo formats the distance between then and now in coarse units.
func TimeAgo(then, now time.Time) string {
	d := now.Sub(then)
	switch {
	case d >= 365*24*time.Hour:
		return fmt.Sprintf("%d years ago", int(d.Hours()/(365*24)))
	case d >= 30*24*time.Hour:
		return fmt.Sprintf("%d months ago", int(d.Hours()/(30*24)))
	case d >= 24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	default:
		return "just now"
	}
}

// AvatarURL returns the user's avatar, deriving a default from the display
// name when none is set.
func AvatarURL(u api.User) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(u.DisplayName) + "&background=random&size=80"
}
