package journal

import (
	"html"
	"regexp"
	"strings"
)

var markupRe = regexp.MustCompile(`<[^>]*>`)

// PlainText strips markup from rich content. Tags become spaces so adjacent
// blocks ("<p>a</p><p>b</p>") do not run together.
func PlainText(content string) string {
	s := markupRe.ReplaceAllString(content, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// WordCount is the number of whitespace-delimited tokens in the plain text of content.
func WordCount(content string) int {
	return len(strings.Fields(PlainText(content)))
}
