package videoshelf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/eringen/videoshelf/views"
)

// BuildReport describes a finished static build.
type BuildReport struct {
	OutDir   string
	Files    []string // written paths, relative to OutDir
	Videos   int
	Duration time.Duration
}

// Build runs the videos query once against a throwaway in-memory index and
// writes the page, its feeds and its assets under outDir (cfg.OutputDir when
// empty). logger and enricher may be nil.
func Build(ctx context.Context, cfg SiteConfig, outDir string, logger *zap.Logger, enricher Enricher) (BuildReport, error) {
	cfg.setDefaults()
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	store, err := NewStore(":memory:")
	if err != nil {
		return BuildReport{}, fmt.Errorf("videoshelf: build: %w", err)
	}
	defer store.Close()

	if _, err := NewSyncer(cfg.ContentDir, store, enricher, logger).Sync(ctx); err != nil {
		return BuildReport{}, err
	}
	data, err := RunVideosQuery(ctx, store, cfg.IncludeDrafts)
	if err != nil {
		return BuildReport{}, fmt.Errorf("videoshelf: build: %w", err)
	}

	b := &builder{outDir: outDir}
	page := cfg.Page

	// User assets first so processed and embedded files overwrite them.
	if err := b.copyStatic(cfg.StaticDir); err != nil {
		return BuildReport{}, err
	}
	ref, img, err := prepareHeaderImage(cfg.StaticDir, page.Header.Image)
	if err != nil {
		logger.Warn("header image not processed, copying as-is", zap.Error(err))
	} else {
		page.Header.Image = ref
		if img != nil {
			b.write(path.Join("public", ref.Src), img)
		}
	}
	css, err := EmbeddedAssets.ReadFile("embedded/" + views.Stylesheet)
	if err != nil {
		return BuildReport{}, err
	}
	b.write(path.Join("public", views.Stylesheet), css)

	pageFile := path.Join(strings.Trim(page.Path, "/"), "index.html")
	b.render(ctx, pageFile, views.VideosPage(cfg.Site(), page, data))
	if pageFile != "index.html" {
		b.render(ctx, "index.html", views.Redirect(page.Path))
	}

	var buf bytes.Buffer
	if err := writeSitemap(&buf, cfg, data); err != nil {
		return BuildReport{}, err
	}
	b.write("sitemap.xml", buf.Bytes())
	buf.Reset()
	if err := writeRSS(&buf, cfg, data); err != nil {
		return BuildReport{}, err
	}
	b.write("feed.xml", buf.Bytes())
	b.write("robots.txt", []byte(robotsTxt(cfg)))

	if b.err != nil {
		return BuildReport{}, fmt.Errorf("videoshelf: build: %w", b.err)
	}
	report := BuildReport{
		OutDir:   outDir,
		Files:    b.files,
		Videos:   data.Len(),
		Duration: time.Since(start),
	}
	logger.Info("site built",
		zap.String("out", outDir),
		zap.Int("files", len(report.Files)),
		zap.Int("videos", report.Videos),
		zap.Duration("took", report.Duration),
	)
	return report, nil
}

// builder writes files under outDir and keeps the first error.
type builder struct {
	outDir string
	files  []string
	err    error
}

func (b *builder) target(rel string) (string, error) {
	p := filepath.Join(b.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	return p, nil
}

func (b *builder) record(rel string) {
	for _, f := range b.files {
		if f == rel {
			return
		}
	}
	b.files = append(b.files, rel)
}

func (b *builder) write(rel string, data []byte) {
	if b.err != nil {
		return
	}
	p, err := b.target(rel)
	if err == nil {
		err = os.WriteFile(p, data, 0o644)
	}
	if err != nil {
		b.err = fmt.Errorf("write %s: %w", rel, err)
		return
	}
	b.record(rel)
}

func (b *builder) render(ctx context.Context, rel string, cmp templ.Component) {
	if b.err != nil {
		return
	}
	if err := RenderFile(ctx, filepath.Join(b.outDir, filepath.FromSlash(rel)), cmp); err != nil {
		b.err = fmt.Errorf("render %s: %w", rel, err)
		return
	}
	b.record(rel)
}

// copyStatic mirrors the user's static dir into public/. A missing dir is fine.
func (b *builder) copyStatic(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		b.write(path.Join("public", filepath.ToSlash(rel)), data)
		return b.err
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("videoshelf: copy static: %w", err)
	}
	return nil
}
