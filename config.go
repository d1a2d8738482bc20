package videoshelf

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eringen/videoshelf/views"
)

// SiteConfig holds all configuration for a videoshelf site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Videos")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/videoshelf.db")
	ContentDir   string `yaml:"content_dir"`   // Markdown content root (default "content")
	StaticDir    string `yaml:"static_dir"`    // User static assets (default "public")
	OutputDir    string `yaml:"output_dir"`    // Static build target (default "dist")

	IncludeDrafts bool   `yaml:"include_drafts"`
	Watch         bool   `yaml:"watch"`         // Resync on content changes while serving
	SyncSchedule  string `yaml:"sync_schedule"` // cron spec, "" disables

	YouTubeAPIKey string `yaml:"youtube_api_key"` // Enables metadata enrichment

	AdminPassword string `yaml:"-"` // Admin login password; admin routes are off when empty
	SessionSecret string `yaml:"-"`
	CookieSecure  bool   `yaml:"cookie_secure"`

	CacheTTL time.Duration `yaml:"cache_ttl"` // Query cache TTL (default 5min)

	Page views.PageCopy `yaml:"-"`
	// PageFile overrides parts of the stock page copy when set in YAML.
	PageFile *PageCopyConfig `yaml:"page,omitempty"`
}

// PageCopyConfig is the YAML form of the videos page copy. Empty fields keep
// the stock copy.
type PageCopyConfig struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Heading     string   `yaml:"heading"`
	Paragraphs  []string `yaml:"paragraphs"`
	Image       string   `yaml:"image"`
	ImageAlt    string   `yaml:"image_alt"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Videos"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/videoshelf.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.Page.Path == "" {
		c.Page = views.DefaultVideosCopy()
	}
	if p := c.PageFile; p != nil {
		if p.Title != "" {
			c.Page.Title = p.Title
		}
		if p.Description != "" {
			c.Page.Description = p.Description
		}
		if len(p.Keywords) > 0 {
			c.Page.Keywords = p.Keywords
		}
		if p.Heading != "" {
			c.Page.Header.Title = p.Heading
		}
		if len(p.Paragraphs) > 0 {
			c.Page.Header.Paragraphs = p.Paragraphs
		}
		if p.Image != "" {
			c.Page.Header.Image.Src = p.Image
		}
		if p.ImageAlt != "" {
			c.Page.Header.Image.Alt = p.ImageAlt
		}
		c.PageFile = nil
	}
}

// Site returns the subset of the config every page template needs.
func (c SiteConfig) Site() views.Site {
	return views.Site{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		PagePath:    c.Page.Path,
	}
}

// AdminEnabled reports whether the admin routes are served.
func (c SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != "" && c.SessionSecret != ""
}

// LoadConfig reads a .env file if present, then the YAML file at path (a
// missing file is not an error when path is the default), then applies
// environment overrides and defaults.
func LoadConfig(path string) (SiteConfig, error) {
	_ = godotenv.Load()

	var cfg SiteConfig
	if path == "" {
		path = EnvOr("VIDEOSHELF_CONFIG", "videoshelf.yaml")
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("videoshelf: parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return SiteConfig{}, fmt.Errorf("videoshelf: read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.setDefaults()
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) {
	cfg.Name = EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Description = EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Addr = EnvOr("ADDR", cfg.Addr)
	cfg.DatabasePath = EnvOr("DATABASE_PATH", cfg.DatabasePath)
	cfg.ContentDir = EnvOr("CONTENT_DIR", cfg.ContentDir)
	cfg.YouTubeAPIKey = EnvOr("YOUTUBE_API_KEY", cfg.YouTubeAPIKey)
	cfg.AdminPassword = EnvOr("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SessionSecret = EnvOr("ADMIN_SESSION_SECRET", cfg.SessionSecret)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = strings.EqualFold(v, "true")
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the logger (default zap.NewNop).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithEnricher sets the metadata enricher applied on every sync.
func WithEnricher(e Enricher) Option {
	return func(a *App) {
		a.enricher = e
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
