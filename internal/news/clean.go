package news

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
)

// CleanText strips markup tags, decodes &nbsp; and &amp; and trims surrounding
// whitespace. Other entities are left as they are. Decoding is a single pass,
// so double-escaped input such as "&amp;nbsp;" becomes "&nbsp;" and a second
// call decodes it again.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}
