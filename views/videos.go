package views

import (
	"strings"

	"github.com/eringen/videoshelf/content"
)

// VideosMeta builds the SEO metadata of the videos page.
func VideosMeta(site Site, page PageCopy, data content.VideosData) PageMeta {
	meta := PageMeta{
		Title:       page.Title,
		Description: page.Description,
		Keywords:    page.Keywords,
		URL:         BuildURL(site.URL, page.Path),
		OGType:      "website",
		JSONLD:      VideosJsonLD(site, page, data),
	}
	if page.Header.Image.Src != "" {
		meta.Image = strings.TrimSuffix(site.URL, "/") + PublicURL(page.Header.Image.Src)
	}
	return meta
}

func featureDetails(fm content.Frontmatter) []string {
	var out []string
	for _, s := range []string{fm.Speaker, fm.Duration, fm.Date} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
