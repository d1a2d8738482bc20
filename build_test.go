package videoshelf

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/videoshelf/views"
)

func buildConfig(t *testing.T) SiteConfig {
	t.Helper()
	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	staticDir := filepath.Join(root, "public")
	writeFiles(t, contentDir, sampleContent)
	require.NoError(t, os.MkdirAll(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "videos-page-header-image.jpg"), encodePNG(t, 1200, 600), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "favicon.ico"), []byte("ico"), 0o644))

	return SiteConfig{
		Name:       "API Talks",
		URL:        "https://talks.example.com",
		ContentDir: contentDir,
		StaticDir:  staticDir,
		OutputDir:  filepath.Join(root, "dist"),
	}
}

func TestBuild(t *testing.T) {
	cfg := buildConfig(t)

	report, err := Build(context.Background(), cfg, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputDir, report.OutDir)
	assert.Equal(t, 2, report.Videos)

	files := append([]string(nil), report.Files...)
	sort.Strings(files)
	assert.Equal(t, []string{
		"feed.xml",
		"index.html",
		"public/favicon.ico",
		"public/videos-page-header-image.jpg",
		"public/" + views.Stylesheet,
		"robots.txt",
		"sitemap.xml",
		"videos/index.html",
	}, files)
	for _, f := range files {
		assert.FileExists(t, filepath.Join(report.OutDir, filepath.FromSlash(f)))
	}

	f, err := os.Open(filepath.Join(report.OutDir, "videos", "index.html"))
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	var titles []string
	doc.Find("article.video-feature h2").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(s.Text()))
	})
	assert.Equal(t, []string{"REST in Practice", "GraphQL Without Tears"}, titles)

	img := doc.Find("header.page-header img").First()
	assert.Equal(t, "800", img.AttrOr("width", ""))
	assert.Equal(t, "400", img.AttrOr("height", ""))

	redirect, err := os.ReadFile(filepath.Join(report.OutDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(redirect), `url=/videos/`)
}

func TestBuildOutDirOverride(t *testing.T) {
	cfg := buildConfig(t)
	out := filepath.Join(t.TempDir(), "site")

	report, err := Build(context.Background(), cfg, out, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, out, report.OutDir)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestBuildIncludeDrafts(t *testing.T) {
	cfg := buildConfig(t)
	cfg.IncludeDrafts = true

	report, err := Build(context.Background(), cfg, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Videos)
}

func TestBuildWithoutHeaderImage(t *testing.T) {
	cfg := buildConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.StaticDir, "videos-page-header-image.jpg")))

	report, err := Build(context.Background(), cfg, "", nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, report.Files, "public/videos-page-header-image.jpg")
	assert.FileExists(t, filepath.Join(report.OutDir, "videos", "index.html"))
}

func TestBuildMalformedContent(t *testing.T) {
	cfg := buildConfig(t)
	writeFiles(t, cfg.ContentDir, map[string]string{"videos/bad.md": "---\ntitle: [\n---\n"})

	_, err := Build(context.Background(), cfg, "", nil, nil)
	assert.Error(t, err)
}
