// Package content loads markdown documents with YAML frontmatter from a
// content directory and turns them into nodes the site can query.
package content

// TypeVideo is the frontmatter type tag of video nodes.
const TypeVideo = "video"

// Frontmatter is the structured metadata at the top of a content document.
type Frontmatter struct {
	Title     string   `yaml:"title"`
	Type      string   `yaml:"type"`
	Date      string   `yaml:"date,omitempty"`
	Summary   string   `yaml:"summary,omitempty"`
	Speaker   string   `yaml:"speaker,omitempty"`
	URL       string   `yaml:"url,omitempty"` // link to the hosted video
	Thumbnail string   `yaml:"thumbnail,omitempty"`
	Duration  string   `yaml:"duration,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	Draft     bool     `yaml:"draft,omitempty"`
}

// Node is a single content record.
type Node struct {
	ID          string
	Path        string // slash-separated, relative to the content root
	Body        string // compiled HTML
	Raw         string // markdown source without frontmatter
	Frontmatter Frontmatter
}

// NodeList wraps the nodes returned by a query.
type NodeList struct {
	Nodes []Node
}

// VideosData is the result shape of the videos query.
type VideosData struct {
	Videos NodeList
}

// Len returns the number of video nodes, treating a missing list as empty.
func (d VideosData) Len() int {
	return len(d.Videos.Nodes)
}
