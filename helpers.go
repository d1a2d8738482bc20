package videoshelf

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/eringen/videoshelf/content"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Summarize returns a plain-text description of a node: the frontmatter
// summary when set, else the first paragraph of the compiled body, cut to max
// runes on a word boundary.
func Summarize(n content.Node, max int) string {
	if s := strings.TrimSpace(n.Frontmatter.Summary); s != "" {
		return truncate(s, max)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(n.Body))
	if err != nil {
		return ""
	}
	text := ""
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.Join(strings.Fields(s.Text()), " ")
		return text == ""
	})
	return truncate(text, max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
