package videoshelf

import (
	"context"

	"github.com/eringen/videoshelf/content"
)

// Query selects content nodes by their frontmatter type tag.
type Query struct {
	Type          string // "" matches every type
	IncludeDrafts bool
}

// VideosQuery selects every published node tagged `type: video`.
var VideosQuery = Query{Type: content.TypeVideo}

// NodeSource is anything that can answer a Query: the Store, or a cache in
// front of it.
type NodeSource interface {
	Query(ctx context.Context, q Query) ([]content.Node, error)
}

// RunVideosQuery executes the videos query against src and shapes the
// result as {videos: {nodes}}.
func RunVideosQuery(ctx context.Context, src NodeSource, includeDrafts bool) (content.VideosData, error) {
	q := VideosQuery
	q.IncludeDrafts = includeDrafts
	nodes, err := src.Query(ctx, q)
	if err != nil {
		return content.VideosData{}, err
	}
	return content.VideosData{Videos: content.NodeList{Nodes: nodes}}, nil
}
