// Package markdown renders the restricted markup subset allowed in comments.
//
// This is intentionally not a markdown parser. The renderer is a fixed,
// ordered list of substitution rules applied to already-escaped text: inline
// code, bold, italic, links, line breaks — in that order. The rule set and
// its order are the compatibility contract with the comment service; do not
// generalize it.
package markdown

import (
	"html"
	"regexp"
)

var rules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile("`([^`]+)`"), "<code>${1}</code>"},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`\*([^*]+)\*`), "<em>${1}</em>"},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), `<a href="${2}" target="_blank" rel="noopener">${1}</a>`},
	{regexp.MustCompile(`\n`), "<br>"},
}

// Render converts comment text to a safe HTML paragraph. The input is
// HTML-escaped first, so literal markup in user content can never be
// interpreted as HTML; only the substitution rules introduce tags.
func Render(text string) string {
	out := html.EscapeString(text)
	for _, r := range rules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	return "<p>" + out + "</p>"
}
