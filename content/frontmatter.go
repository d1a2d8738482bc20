package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("content: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block was not closed.
	ErrMalformedFrontMatter = errors.New("content: malformed frontmatter")
)

// ParseFrontMatter splits a document that starts with `---` fences into its
// metadata and body. Every field is optional; a video's title may be filled
// in later by enrichment.
func ParseFrontMatter(src []byte) (Frontmatter, []byte, error) {
	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Frontmatter{}, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]

	var meta, body []byte
	if bytes.HasPrefix(rest, []byte("---\n")) {
		// empty block
		body = rest[4:]
	} else {
		parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
		if len(parts) < 2 {
			// a closing fence at EOF without trailing newline
			if bytes.HasSuffix(rest, []byte("\n---")) {
				parts = [][]byte{rest[:len(rest)-4], nil}
			} else {
				return Frontmatter{}, nil, ErrMalformedFrontMatter
			}
		}
		meta, body = parts[0], parts[1]
	}

	var fm Frontmatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return Frontmatter{}, nil, fmt.Errorf("content: parse frontmatter: %w", err)
	}
	fm.Title = strings.TrimSpace(fm.Title)
	fm.Type = strings.ToLower(strings.TrimSpace(fm.Type))
	for i := range fm.Tags {
		fm.Tags[i] = strings.ToLower(strings.TrimSpace(fm.Tags[i]))
	}
	return fm, bytes.TrimLeft(body, "\n"), nil
}
