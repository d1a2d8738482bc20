package videoshelf

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/eringen/videoshelf/content"
	"github.com/eringen/videoshelf/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// writeRSS emits one feed item per video, in page order. Items link to
// their feature block on the videos page.
func writeRSS(w io.Writer, cfg SiteConfig, data content.VideosData) error {
	pageURL := views.BuildURL(cfg.URL, cfg.Page.Path)
	items := make([]rssItem, 0, data.Len())
	for _, n := range data.Videos.Nodes {
		pubDate := ""
		if t, err := time.Parse(dateLayout, n.Frontmatter.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		link := pageURL + "#" + views.FeatureID(n.ID)
		items = append(items, rssItem{
			Title:       n.Frontmatter.Title,
			Link:        link,
			Description: Summarize(n, 280),
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        pageURL,
			Description: cfg.Page.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}

func robotsTxt(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + cfg.URL + "/sitemap.xml\n"
}
