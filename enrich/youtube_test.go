package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/eringen/videoshelf/content"
)

// fakeAPI answers videos.list with a canned item per known id and records
// the ids of every request.
type fakeAPI struct {
	mu       sync.Mutex
	requests [][]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/videos") {
		http.NotFound(w, r)
		return
	}
	var ids []string
	for _, v := range r.URL.Query()["id"] {
		ids = append(ids, strings.Split(v, ",")...)
	}
	f.mu.Lock()
	f.requests = append(f.requests, ids)
	f.mu.Unlock()

	var items []string
	for _, id := range ids {
		if id == "missingvid0" {
			continue
		}
		items = append(items, fmt.Sprintf(`{
			"id": %q,
			"snippet": {
				"title": "API title %s",
				"publishedAt": "2023-04-05T10:00:00Z",
				"thumbnails": {"high": {"url": "https://i.ytimg.com/vi/%s/hqdefault.jpg"}}
			},
			"contentDetails": {"duration": "PT1H2M3S"}
		}`, id, id, id))
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"items": [%s]}`, strings.Join(items, ","))
}

func newTestYouTube(t *testing.T) (*YouTube, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	y, err := NewYouTube(context.Background(), "test-key", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return y, api
}

func video(path, url string, fm content.Frontmatter) content.Node {
	fm.Type = content.TypeVideo
	fm.URL = url
	return content.Node{ID: content.NodeID(path), Path: path, Frontmatter: fm}
}

func TestEnrichFillsEmptyFields(t *testing.T) {
	y, api := newTestYouTube(t)

	nodes := []content.Node{
		video("a.md", "https://youtu.be/dQw4w9WgXcQ", content.Frontmatter{Title: "Kept title"}),
		video("b.md", "https://vimeo.com/76979871", content.Frontmatter{Title: "Vimeo talk"}),
		{Path: "c.md", Frontmatter: content.Frontmatter{Title: "Post", Type: "post", URL: "https://youtu.be/aaaaaaaaaaa"}},
	}

	out, err := y.Enrich(context.Background(), nodes)
	require.NoError(t, err)
	require.Len(t, out, 3)

	got := out[0].Frontmatter
	assert.Equal(t, "Kept title", got.Title)
	assert.Equal(t, "2023-04-05", got.Date)
	assert.Equal(t, "1:02:03", got.Duration)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", got.Thumbnail)

	assert.Equal(t, nodes[1], out[1], "non-YouTube video untouched")
	assert.Equal(t, nodes[2], out[2], "non-video node untouched")
	assert.Empty(t, nodes[0].Frontmatter.Duration, "input slice not modified")

	require.Len(t, api.requests, 1)
	assert.Equal(t, []string{"dQw4w9WgXcQ"}, api.requests[0])
}

func TestEnrichSkipsCompleteNodes(t *testing.T) {
	y, api := newTestYouTube(t)

	complete := content.Frontmatter{Title: "T", Date: "2020-01-01", Duration: "3:00", Thumbnail: "x.jpg"}
	nodes := []content.Node{video("a.md", "https://youtu.be/dQw4w9WgXcQ", complete)}

	out, err := y.Enrich(context.Background(), nodes)
	require.NoError(t, err)
	assert.Equal(t, nodes, out)
	assert.Empty(t, api.requests)
}

func TestEnrichBatchesAndDedupes(t *testing.T) {
	y, api := newTestYouTube(t)

	var nodes []content.Node
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("vid%08d", i)
		nodes = append(nodes, video(fmt.Sprintf("%02d.md", i), "https://www.youtube.com/watch?v="+id, content.Frontmatter{}))
	}
	// Same video twice.
	nodes = append(nodes, video("dup.md", "https://youtu.be/vid00000000", content.Frontmatter{}))
	// Unknown to the API.
	nodes = append(nodes, video("gone.md", "https://youtu.be/missingvid0", content.Frontmatter{}))

	out, err := y.Enrich(context.Background(), nodes)
	require.NoError(t, err)

	require.Len(t, api.requests, 2)
	assert.Len(t, api.requests[0], 50)
	assert.Len(t, api.requests[1], 11)

	assert.Equal(t, "API title vid00000000", out[0].Frontmatter.Title)
	assert.Equal(t, "API title vid00000000", out[60].Frontmatter.Title)
	assert.Empty(t, out[61].Frontmatter.Title)
}

func TestEnrichAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403, "message": "quota"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	y, err := NewYouTube(context.Background(), "k", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	_, err = y.Enrich(context.Background(), []content.Node{
		video("a.md", "https://youtu.be/dQw4w9WgXcQ", content.Frontmatter{}),
	})
	assert.ErrorContains(t, err, "videos.list")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PT1H2M3S", "1:02:03"},
		{"PT4M5S", "4:05"},
		{"PT45S", "0:45"},
		{"PT90M", "1:30:00"},
		{"PT2H", "2:00:00"},
		{"PT0S", ""},
		{"P1D", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}
