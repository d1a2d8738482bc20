package videoshelf

import (
	"encoding/xml"
	"io"

	"github.com/eringen/videoshelf/content"
	"github.com/eringen/videoshelf/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists the home URL and the videos page. The page's lastmod is
// the newest video date.
func writeSitemap(w io.Writer, cfg SiteConfig, data content.VideosData) error {
	lastMod := ""
	for _, n := range data.Videos.Nodes {
		if d := n.Frontmatter.Date; validDate(d) && d > lastMod {
			lastMod = d
		}
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: views.BuildURL(cfg.URL)},
			{Loc: views.BuildURL(cfg.URL, cfg.Page.Path), LastMod: lastMod},
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
