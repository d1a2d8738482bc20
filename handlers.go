package videoshelf

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/videoshelf/content"
	"github.com/eringen/videoshelf/views"
)

func (a *App) videosData(c echo.Context) (content.VideosData, error) {
	return RunVideosQuery(c.Request().Context(), a.Cache, a.Config.IncludeDrafts)
}

func (a *App) handleVideos(c echo.Context) error {
	data, err := a.videosData(c)
	if err != nil {
		return err
	}
	page := a.Config.Page
	page.Header.Image = a.headerImage.ref
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "videos" {
		return Render(c, views.VideosContent(page.Header, data))
	}
	return Render(c, views.VideosPage(a.Config.Site(), page, data))
}

func (a *App) handleHeaderImage(c echo.Context) error {
	return c.Blob(http.StatusOK, "image/jpeg", a.headerImage.data)
}

func (a *App) handleSitemap(c echo.Context) error {
	data, err := a.videosData(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeSitemap(&buf, a.Config, data); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (a *App) handleFeed(c echo.Context) error {
	data, err := a.videosData(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeRSS(&buf, a.Config, data); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt(a.Config))
}

func (a *App) handleHome(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, a.Config.Page.Path)
}

func (a *App) handleStylesheet(c echo.Context) error {
	css, err := EmbeddedAssets.ReadFile("embedded/" + views.Stylesheet)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", css)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
		_ = RenderStatus(c, code, views.ServerError(a.Config.Site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
