package content

import (
	"net/url"
	"regexp"
	"strings"
)

var reYouTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeID extracts the video id from a youtube.com or youtu.be link.
// It returns "" for anything else.
func YouTubeID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/live/"):
			id = strings.TrimPrefix(u.Path, "/live/")
		}
	}
	if !reYouTubeID.MatchString(id) {
		return ""
	}
	return id
}

// VimeoID extracts the numeric id from a vimeo.com link.
func VimeoID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "vimeo.com" && host != "player.vimeo.com" {
		return ""
	}
	seg := strings.Trim(u.Path, "/")
	seg = strings.TrimPrefix(seg, "video/")
	if seg == "" {
		return ""
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return seg
}

// EmbedURL returns a player URL suitable for an iframe, or "" when the link
// is not a known video host.
func EmbedURL(raw string) string {
	if id := YouTubeID(raw); id != "" {
		return "https://www.youtube-nocookie.com/embed/" + id
	}
	if id := VimeoID(raw); id != "" {
		return "https://player.vimeo.com/video/" + id
	}
	return ""
}
