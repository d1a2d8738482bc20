// Package views holds the templ components that render the site's pages.
package views

//go:generate templ generate

// Stylesheet is the file name of the embedded stylesheet under /public/.
const Stylesheet = "videoshelf.css"

// Site holds site-wide settings every page needs. The root package builds it
// from SiteConfig so nothing here is hardcoded.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	PagePath    string // site-relative path of the videos page
}

// NavPath is where site navigation points: the videos page.
func (s Site) NavPath() string {
	if s.PagePath == "" {
		return DefaultVideosCopy().Path
	}
	return s.PagePath
}

// PageMeta carries per-page SEO metadata into the <head> block.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // absolute og:image URL
	JSONLD      string
}

// ImageRef points at a static image under /public/.
type ImageRef struct {
	Src    string // file name relative to the public dir
	Alt    string
	Width  int // 0 when unknown
	Height int
}

// PageHeader is the fixed block above the video list.
type PageHeader struct {
	Title      string
	Paragraphs []string
	Image      ImageRef
}

// PageCopy is the fixed copy of the videos page.
type PageCopy struct {
	Path        string // site-relative path, e.g. "/videos/"
	Title       string // document title
	Description string
	Keywords    []string
	Header      PageHeader
}

// DefaultVideosCopy returns the stock copy of the videos page.
func DefaultVideosCopy() PageCopy {
	return PageCopy{
		Path:        "/videos/",
		Title:       "Videos",
		Description: "Mini conference talks about APIs you can watch whenever you fancy.",
		Keywords:    []string{"apis", "api", "rest", "rpc", "graphql"},
		Header: PageHeader{
			Title: "Can't Make It To The Big Conferences In Paris, London, Or San Francisco?",
			Paragraphs: []string{
				"We get it! We've all got local bars to keep up appearances at, bike races to train for, and pet turtles don't feed themselves!",
				"Grab these mini conference talks, and watch them whenever you fancy.",
			},
			Image: ImageRef{
				Src: "videos-page-header-image.jpg",
				Alt: "Speaker on stage at a conference",
			},
		},
	}
}
