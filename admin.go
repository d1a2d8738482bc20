package videoshelf

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/videoshelf/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.Config.Site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("failed admin login", zap.String("ip", ip))
	return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(a.Config.Site(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminSync(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	report, err := a.Syncer.Sync(c.Request().Context())
	if err != nil {
		a.Logger.Error("admin resync failed", zap.Error(err))
		return a.renderAdminDashboard(c, "Sync failed: "+err.Error())
	}
	msg := fmt.Sprintf("Synced %d nodes (%d videos) in %s.", report.Nodes, report.Videos, report.Duration.Round(time.Millisecond))
	return a.renderAdminDashboard(c, msg)
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	nodes, err := a.Store.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	status := views.AdminStatus{ContentDir: a.Config.ContentDir, Message: msg}
	if last, ok := a.Syncer.LastReport(); ok {
		status.LastSync = last.At.Format(time.RFC1123)
	}
	return Render(c, views.AdminDashboard(a.Config.Site(), nodes, status, CsrfToken(c)))
}
