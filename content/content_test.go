package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, root, rel, src string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestParseFrontMatter(t *testing.T) {
	src := "---\r\ntitle: \"  Rate Limiting APIs \"\r\ntype: Video\r\ntags: [Go, REST]\r\n---\r\n\r\nBody **text**\r\n"
	fm, body, err := ParseFrontMatter([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Rate Limiting APIs", fm.Title)
	assert.Equal(t, "video", fm.Type)
	assert.Equal(t, []string{"go", "rest"}, fm.Tags)
	assert.Equal(t, "Body **text**\n", string(body))
}

func TestParseFrontMatterClosingFenceAtEOF(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("---\ntitle: Only meta\ntype: video\n---"))
	require.NoError(t, err)
	assert.Equal(t, "Only meta", fm.Title)
	assert.Empty(t, body)
}

func TestParseFrontMatterErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no fence", "title: x\n", ErrMissingFrontMatter},
		{"empty", "", ErrMissingFrontMatter},
		{"unclosed", "---\ntitle: x\nbody", ErrMalformedFrontMatter},
		{"unclosed after fields", "---\ntype: video\nurl: x\n", ErrMalformedFrontMatter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseFrontMatter([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseFrontMatter error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseFrontMatterOptionalFields(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("---\ntype: video\nurl: https://youtu.be/dQw4w9WgXcQ\n---\n"))
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.Equal(t, TypeVideo, fm.Type)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", fm.URL)
	assert.Empty(t, body)

	fm, body, err = ParseFrontMatter([]byte("---\n---\nbody"))
	require.NoError(t, err)
	assert.Equal(t, Frontmatter{}, fm)
	assert.Equal(t, "body", string(body))
}

func TestParseFrontMatterInvalidYAML(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ntitle: [unterminated\n---\nbody"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse frontmatter")
}

func TestNodeIDStable(t *testing.T) {
	a := NodeID("videos/graphql.md")
	b := NodeID("videos/graphql.md")
	c := NodeID("videos/rest.md")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

func TestLoadSortsByPathAndCompiles(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "videos/b-rest.md", "---\ntitle: REST\ntype: video\n---\nAbout *REST*.\n")
	writeDoc(t, root, "videos/a-graphql.mdx", "---\ntitle: GraphQL\ntype: video\n---\nAbout GraphQL.\n")
	writeDoc(t, root, "books/c-book.md", "---\ntitle: A Book\ntype: book\n---\nRead me.\n")
	writeDoc(t, root, "notes.txt", "not content")
	writeDoc(t, root, "README.md", "no frontmatter here\n")
	writeDoc(t, root, ".drafts/hidden.md", "---\ntitle: Hidden\ntype: video\n---\n")

	nodes, err := Load(context.Background(), root, LoadOptions{Workers: 2})
	require.NoError(t, err)

	var paths []string
	for _, n := range nodes {
		paths = append(paths, n.Path)
	}
	want := []string{"books/c-book.md", "videos/a-graphql.mdx", "videos/b-rest.md"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	rest := nodes[2]
	assert.Equal(t, NodeID("videos/b-rest.md"), rest.ID)
	assert.Equal(t, "REST", rest.Frontmatter.Title)
	assert.Equal(t, "<p>About <em>REST</em>.</p>\n", rest.Body)
	assert.Equal(t, "About *REST*.\n", rest.Raw)
}

func TestLoadIDsStableAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "videos/one.md", "---\ntitle: One\ntype: video\n---\n")
	writeDoc(t, root, "videos/two.md", "---\ntitle: Two\ntype: video\n---\n")

	first, err := Load(context.Background(), root, LoadOptions{})
	require.NoError(t, err)
	second, err := Load(context.Background(), root, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestLoadFailsOnMalformedDocument(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "videos/good.md", "---\ntitle: Good\ntype: video\n---\n")
	writeDoc(t, root, "videos/bad.md", "---\ntype: video\nno closing fence\n")

	_, err := Load(context.Background(), root, LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFrontMatter))
	assert.True(t, strings.Contains(err.Error(), "videos/bad.md"))
}

func TestLoadKeepsUntitledDocuments(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "videos/a.md", "---\ntitle: A\ntype: video\n---\nAbout A.\n")
	writeDoc(t, root, "videos/url-only.md", "---\ntype: video\nurl: https://youtu.be/dQw4w9WgXcQ\n---\n")
	writeDoc(t, root, "pages/about.md", "---\ntype: page\n---\n")

	nodes, err := Load(context.Background(), root, LoadOptions{})
	require.NoError(t, err)

	var paths []string
	for _, n := range nodes {
		paths = append(paths, n.Path)
	}
	assert.Equal(t, []string{"pages/about.md", "videos/a.md", "videos/url-only.md"}, paths)
	assert.Empty(t, nodes[2].Frontmatter.Title)
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), LoadOptions{})
	require.Error(t, err)
}

func TestYouTubeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=short", ""},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"not a url at all", ""},
	}
	for _, tt := range tests {
		if got := YouTubeID(tt.input); got != tt.want {
			t.Errorf("YouTubeID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ"},
		{"https://vimeo.com/76979871", "https://player.vimeo.com/video/76979871"},
		{"https://vimeo.com/channels/staffpicks", ""},
		{"https://example.com/talk.mp4", ""},
	}
	for _, tt := range tests {
		if got := EmbedURL(tt.input); got != tt.want {
			t.Errorf("EmbedURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVideosDataLen(t *testing.T) {
	var empty VideosData
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 2, VideosData{Videos: NodeList{Nodes: make([]Node, 2)}}.Len())
}
