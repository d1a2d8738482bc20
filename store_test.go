package videoshelf

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eringen/videoshelf/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testNode(path, typ, title string) content.Node {
	return content.Node{
		ID:   content.NodeID(path),
		Path: path,
		Body: "<p>" + title + "</p>\n",
		Raw:  title + "\n",
		Frontmatter: content.Frontmatter{
			Title: title,
			Type:  typ,
		},
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestNewStoreMemory(t *testing.T) {
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore(:memory:) failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.ReplaceAll(ctx, []content.Node{testNode("a.md", "video", "A")}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	// A second connection would see an empty database.
	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
}

func TestReplaceAllRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	want := content.Node{
		ID:   content.NodeID("videos/rest.md"),
		Path: "videos/rest.md",
		Body: "<p>About <em>REST</em>.</p>\n",
		Raw:  "About *REST*.\n",
		Frontmatter: content.Frontmatter{
			Title:     "REST in Practice",
			Type:      "video",
			Date:      "2023-05-01",
			Summary:   "A summary",
			Speaker:   "Jane Doe",
			URL:       "https://youtu.be/dQw4w9WgXcQ",
			Thumbnail: "https://example.com/t.jpg",
			Duration:  "42:10",
			Tags:      []string{"api", "rest"},
			Draft:     true,
		},
	}
	if err := s.ReplaceAll(ctx, []content.Node{want}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := s.GetNode(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetNode mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceAllReplaces(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := []content.Node{testNode("a.md", "video", "A"), testNode("b.md", "video", "B")}
	if err := s.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	second := []content.Node{testNode("c.md", "video", "C")}
	if err := s.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	if _, err := s.GetNode(ctx, content.NodeID("a.md")); !errors.Is(err, ErrNotFound) {
		t.Errorf("old node should be gone, got err: %v", err)
	}
}

func TestReplaceAllDuplicatePathRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceAll(ctx, []content.Node{testNode("keep.md", "video", "Keep")}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	dup := []content.Node{testNode("x.md", "video", "X"), testNode("x.md", "video", "X again")}
	if err := s.ReplaceAll(ctx, dup); err == nil {
		t.Fatal("ReplaceAll with duplicate paths should fail")
	}

	if _, err := s.GetNode(ctx, content.NodeID("keep.md")); err != nil {
		t.Errorf("previous index should survive a failed replace, got err: %v", err)
	}
}

func TestQueryFiltersAndOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	draft := testNode("c.md", "video", "C draft")
	draft.Frontmatter.Draft = true
	nodes := []content.Node{
		testNode("z.md", "video", "Z"),
		testNode("post.md", "post", "Post"),
		draft,
		testNode("a.md", "video", "A"),
	}
	if err := s.ReplaceAll(ctx, nodes); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	titles := func(q Query) []string {
		t.Helper()
		got, err := s.Query(ctx, q)
		if err != nil {
			t.Fatalf("Query(%+v) failed: %v", q, err)
		}
		var out []string
		for _, n := range got {
			out = append(out, n.Frontmatter.Title)
		}
		return out
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"videos", Query{Type: "video"}, []string{"Z", "A"}},
		{"videos with drafts", Query{Type: "video", IncludeDrafts: true}, []string{"Z", "C draft", "A"}},
		{"type is case-insensitive", Query{Type: "VIDEO"}, []string{"Z", "A"}},
		{"all types", Query{}, []string{"Z", "Post", "A"}},
		{"unknown type", Query{Type: "book"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titles(tt.q)); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryEmptyIsNonNil(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.Query(context.Background(), VideosQuery)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if got == nil {
		t.Error("Query should return an empty slice, not nil")
	}
}

func TestListAll(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	draft := testNode("b.md", "post", "B")
	draft.Frontmatter.Draft = true
	if err := s.ReplaceAll(ctx, []content.Node{testNode("a.md", "video", "A"), draft}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAll returned %d nodes, want 2", len(all))
	}
}

func TestGetNodeNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetNode(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNode on nonexistent: got err %v, want ErrNotFound", err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.input)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseTags(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestJoinTagsNormalizes(t *testing.T) {
	got := joinTags([]string{" Go ", "", "WEB"})
	if got != ",go,web," {
		t.Errorf("joinTags = %q, want %q", got, ",go,web,")
	}
	if got := joinTags(nil); got != "," {
		t.Errorf("joinTags(nil) = %q, want %q", got, ",")
	}
}
