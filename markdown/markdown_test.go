package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCompileInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<p><strong>bold</strong></p>\n"},
		{"*italic*", "<p><em>italic</em></p>\n"},
		{"use `fmt.Println` here", "<p>use <code>fmt.Println</code> here</p>\n"},
		{"~~gone~~", "<p><del>gone</del></p>\n"},
	}
	for _, tt := range tests {
		got, err := Compile([]byte(tt.input))
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Compile(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCompileList(t *testing.T) {
	got, err := Compile([]byte("- item 1\n- item 2"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	expected := "<ul>\n<li>item 1</li>\n<li>item 2</li>\n</ul>\n"
	if got != expected {
		t.Errorf("Compile list = %q, want %q", got, expected)
	}
}

func TestCompileCodeBlockWithLanguage(t *testing.T) {
	got, err := Compile([]byte("```go\nfmt.Println(\"hello\")\n```"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "fmt.Println(&quot;hello&quot;)") {
		t.Errorf("code block should escape its content: %q", got)
	}
}

func TestCompileDropsRawHTML(t *testing.T) {
	got, err := Compile([]byte("hello\n\n<script>alert(1)</script>\n"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should be omitted: %q", got)
	}
}

func TestCompileBlanksDangerousLinks(t *testing.T) {
	got, err := Compile([]byte("[click](javascript:alert(1))"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("dangerous link should be removed: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("## Talk notes").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if buf.String() != "<h2>Talk notes</h2>\n" {
		t.Errorf("Markdown rendered %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/a?b=1&c=2", "https://example.com/a?b=1&amp;c=2"},
		{"/videos/", "/videos/"},
		{"#top", "#top"},
		{"mailto:hi@example.com", "mailto:hi@example.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html;base64,xx", ""},
		{"relative/path", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
