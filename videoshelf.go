// Package videoshelf renders a "Videos" listing page from a directory of
// markdown documents. It can serve the page with Echo or build it to static
// files; both paths run the same content query and the same templ views.
package videoshelf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/videoshelf/views"
)

// App is the central videoshelf application. It wires together the store,
// cache, syncer, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *NodeCache
	Syncer *Syncer
	Logger *zap.Logger

	enricher     Enricher
	loginLimiter *LoginLimiter
	headerImage  headerImage
	watcher      *Watcher
	scheduler    *Scheduler
	customRoutes []func(*App)
}

type headerImage struct {
	ref  views.ImageRef
	data []byte // processed JPEG; nil when the source is missing
}

// New creates a videoshelf App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: zap.NewNop(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, runs the first sync, prepares the header image and
// registers middleware and routes. It does not listen.
func (a *App) Init(ctx context.Context) error {
	if (a.Config.AdminPassword == "") != (a.Config.SessionSecret == "") {
		return fmt.Errorf("videoshelf: AdminPassword and SessionSecret must be set together")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("videoshelf: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewNodeCache(a.Store, a.Config.CacheTTL)
	a.Syncer = NewSyncer(a.Config.ContentDir, a.Store, a.enricher, a.Logger)
	a.Syncer.OnSync(a.Cache.Invalidate)

	if _, err := a.Syncer.Sync(ctx); err != nil {
		return err
	}

	a.headerImage.ref = a.Config.Page.Header.Image
	ref, data, err := prepareHeaderImage(a.Config.StaticDir, a.Config.Page.Header.Image)
	if err != nil {
		a.Logger.Warn("header image not processed, serving as-is", zap.Error(err))
	} else {
		a.headerImage = headerImage{ref: ref, data: data}
	}

	if a.Config.AdminEnabled() {
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app, starts the content watcher and sync schedule
// when configured, and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	if a.Config.Watch {
		w, err := NewWatcher(a.Syncer, 0, a.Logger)
		if err != nil {
			return fmt.Errorf("videoshelf: init watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return fmt.Errorf("videoshelf: start watcher: %w", err)
		}
		a.watcher = w
	}
	if a.Config.SyncSchedule != "" {
		s, err := NewScheduler(ctx, a.Config.SyncSchedule, a.Syncer, a.Logger)
		if err != nil {
			return err
		}
		s.Start()
		a.scheduler = s
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("shutdown", zap.Error(err))
		}
	}()

	a.Logger.Info("serving", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets take precedence over the user's static dir.
	e.GET("/public/"+views.Stylesheet, a.handleStylesheet)
	if a.headerImage.data != nil {
		e.GET(views.PublicURL(a.headerImage.ref.Src), a.handleHeaderImage)
	}
	e.Static("/public", a.Config.StaticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET(a.Config.Page.Path, a.handleVideos)

	if a.Config.AdminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/sync/", a.handleAdminSync)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
