// Package enrich fills in video metadata the content files leave out.
package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/eringen/videoshelf/content"
)

// maxBatch is the videos.list id limit.
const maxBatch = 50

// YouTube looks up YouTube-hosted videos through the Data API and fills
// empty title, duration, thumbnail and date fields. Values set in
// frontmatter always win.
type YouTube struct {
	service *youtube.Service
	logger  *zap.Logger
}

// NewYouTube creates an enricher authenticated with an API key. Extra client
// options are appended, so tests can point it at a local endpoint.
func NewYouTube(ctx context.Context, apiKey string, logger *zap.Logger, opts ...option.ClientOption) (*YouTube, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("enrich: create YouTube service: %w", err)
	}
	return &YouTube{service: service, logger: logger}, nil
}

// Enrich returns a copy of nodes with missing metadata filled in. Nodes
// that are not YouTube videos, or that need nothing, are not looked up.
func (y *YouTube) Enrich(ctx context.Context, nodes []content.Node) ([]content.Node, error) {
	out := make([]content.Node, len(nodes))
	copy(out, nodes)

	wanted := make(map[string][]int)
	var ids []string
	for i, n := range out {
		if n.Frontmatter.Type != content.TypeVideo || !needsLookup(n.Frontmatter) {
			continue
		}
		id := content.YouTubeID(n.Frontmatter.URL)
		if id == "" {
			continue
		}
		if _, seen := wanted[id]; !seen {
			ids = append(ids, id)
		}
		wanted[id] = append(wanted[id], i)
	}
	if len(ids) == 0 {
		return out, nil
	}

	found := 0
	for start := 0; start < len(ids); start += maxBatch {
		end := min(start+maxBatch, len(ids))
		resp, err := y.service.Videos.List([]string{"snippet", "contentDetails"}).
			Id(ids[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("enrich: videos.list: %w", err)
		}
		for _, item := range resp.Items {
			for _, i := range wanted[item.Id] {
				apply(&out[i].Frontmatter, item)
				found++
			}
		}
	}
	y.logger.Debug("youtube enrichment",
		zap.Int("requested", len(ids)),
		zap.Int("nodes_updated", found),
	)
	return out, nil
}

func needsLookup(fm content.Frontmatter) bool {
	return fm.Title == "" || fm.Duration == "" || fm.Thumbnail == "" || fm.Date == ""
}

func apply(fm *content.Frontmatter, v *youtube.Video) {
	if s := v.Snippet; s != nil {
		if fm.Title == "" {
			fm.Title = s.Title
		}
		if fm.Date == "" {
			if t, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
				fm.Date = t.Format("2006-01-02")
			}
		}
		if fm.Thumbnail == "" {
			fm.Thumbnail = thumbnailURL(s.Thumbnails)
		}
	}
	if cd := v.ContentDetails; cd != nil && fm.Duration == "" {
		fm.Duration = FormatDuration(cd.Duration)
	}
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration turns an ISO 8601 duration such as "PT1H2M3S" into a
// clock string ("1:02:03", "4:05"). It returns "" for anything it cannot
// parse, including zero-length durations.
func FormatDuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}
	var parts [3]int
	for i := range parts {
		if m[i+1] != "" {
			parts[i], _ = strconv.Atoi(m[i+1])
		}
	}
	h, mins, s := parts[0], parts[1], parts[2]
	h += mins / 60
	mins %= 60
	if h == 0 && mins == 0 && s == 0 {
		return ""
	}
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%d:%02d", mins, s)
}
