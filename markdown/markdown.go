// Package markdown compiles markdown bodies to HTML and exposes them as templ components.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in sources is dropped and dangerous link schemes are blanked,
// since goldmark runs without html.WithUnsafe.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithRendererOptions(gmhtml.WithXHTML()),
)

// Compile converts a markdown document to HTML.
func Compile(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := Compile([]byte(content))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths, anchors and http(s)/mailto/tel URLs pass; anything else
// yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
