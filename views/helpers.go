package views

import (
	"encoding/json"
	"html"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/videoshelf/content"
	"github.com/eringen/videoshelf/markdown"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// sanitizedURL is markdown.SafeURL without the entity escaping; templ
// escapes attribute values when it writes them.
func sanitizedURL(raw string) string {
	return html.UnescapeString(markdown.SafeURL(raw))
}

// PublicURL returns the site-relative URL of a file in the public dir.
func PublicURL(name string) string {
	return "/public/" + strings.TrimPrefix(name, "/")
}

// FeatureID is the DOM id of the feature block for a node.
func FeatureID(id string) string {
	return "video-" + id
}

// VideosJsonLD produces a Schema.org CollectionPage whose ItemList holds one
// VideoObject per node, in list order.
func VideosJsonLD(site Site, page PageCopy, data content.VideosData) string {
	pageURL := BuildURL(site.URL, page.Path)
	items := make([]map[string]interface{}, 0, data.Len())
	for i, n := range data.Videos.Nodes {
		video := map[string]interface{}{
			"@type": "VideoObject",
			"name":  n.Frontmatter.Title,
			"url":   pageURL + "#" + FeatureID(n.ID),
		}
		if n.Frontmatter.Summary != "" {
			video["description"] = n.Frontmatter.Summary
		}
		if n.Frontmatter.Thumbnail != "" {
			video["thumbnailUrl"] = n.Frontmatter.Thumbnail
		}
		if n.Frontmatter.Date != "" {
			video["uploadDate"] = n.Frontmatter.Date
		}
		if embed := content.EmbedURL(n.Frontmatter.URL); embed != "" {
			video["embedUrl"] = embed
		}
		items = append(items, map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     video,
		})
	}
	ld := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "CollectionPage",
		"name":     page.Title,
		"url":      pageURL,
		"mainEntity": map[string]interface{}{
			"@type":           "ItemList",
			"numberOfItems":   len(items),
			"itemListElement": items,
		},
	}
	if page.Description != "" {
		ld["description"] = page.Description
	}
	if site.Name != "" {
		ld["isPartOf"] = map[string]string{
			"@type": "WebSite",
			"name":  site.Name,
			"url":   BuildURL(site.URL),
		}
	}
	b, err := json.Marshal(ld)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type metaTag struct {
	Property string
	Content  string
}

func seoTitle(site Site, meta PageMeta) string {
	switch {
	case meta.Title == "":
		return site.Name
	case site.Name != "" && meta.Title != site.Name:
		return meta.Title + " | " + site.Name
	}
	return meta.Title
}

func seoDescription(site Site, meta PageMeta) string {
	if meta.Description != "" {
		return meta.Description
	}
	return site.Description
}

// openGraph lists the og: properties that have a value, in a fixed order.
func openGraph(site Site, meta PageMeta) []metaTag {
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}
	all := []metaTag{
		{"og:type", ogType},
		{"og:title", seoTitle(site, meta)},
		{"og:description", seoDescription(site, meta)},
		{"og:url", meta.URL},
		{"og:site_name", site.Name},
		{"og:image", meta.Image},
	}
	tags := all[:0]
	for _, t := range all {
		if t.Content != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func footerText(site Site) string {
	s := "© " + site.Name
	if site.Author != "" {
		s += " · " + site.Author
	}
	return s
}
