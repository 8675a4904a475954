package comments

import (
	"html"
	"strings"
	"time"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/markdown"
)

// ExportHTML renders the comment list as a static HTML fragment matching the
// theme's markup, suitable for embedding in a generated page. Comment bodies
// go through the restricted markdown renderer; everything else is escaped.
func ExportHTML(list []api.Comment, now time.Time) string {
	var b strings.Builder
	for _, c := range list {
		writeCommentHTML(&b, c, now)
	}
	return b.String()
}

func writeCommentHTML(b *strings.Builder, c api.Comment, now time.Time) {
	itemClass := "comment-item"
	if c.IsPending() {
		itemClass += " comment-pending"
	}
	authorClass := "comment-author"
	if c.User.IsAdmin {
		authorClass += " is-admin"
	}
	name := html.EscapeString(c.User.DisplayName)

	b.WriteString(`<div class="` + itemClass + `">` + "\n")
	b.WriteString(`  <img class="comment-avatar" src="` + html.EscapeString(AvatarURL(c.User)) + `" alt="` + name + `" loading="lazy">` + "\n")
	b.WriteString(`  <div class="comment-body">` + "\n")
	b.WriteString(`    <div class="comment-header">` + "\n")
	b.WriteString(`      <span class="` + authorClass + `">` + name + `</span>` + "\n")
	b.WriteString(`      <span class="comment-time">` + TimeAgo(c.CreatedAt, now) + `</span>` + "\n")
	b.WriteString("    </div>\n")
	if c.ReplyToUser != nil {
		b.WriteString(`    <div class="comment-reply-to"><span class="reply-name">` +
			html.EscapeString(c.ReplyToUser.DisplayName) + `</span></div>` + "\n")
	}
	b.WriteString(`    <div class="comment-content">` + markdown.Render(c.Content) + `</div>` + "\n")
	b.WriteString("  </div>\n")
	b.WriteString("</div>\n")
}
