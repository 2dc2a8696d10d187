package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/gofiber/template/html/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewhub/internal/auth"
	"crewhub/internal/config"
	"crewhub/internal/middleware"
)

func newAdminAuthApp(t *testing.T, passwordHash string) *fiber.App {
	t.Helper()
	cfg := &config.Config{SiteTitle: "Run Crew", AdminPasswordHash: passwordHash}
	h, err := NewAdminAuthHandler(context.Background(), cfg, &config.YAMLConfig{})
	require.NoError(t, err)

	engine := html.New("../../views", ".html")
	engine.AddFuncMap(TemplateFuncs())
	app := fiber.New(fiber.Config{Views: engine, ViewsLayout: "layouts/main"})

	sessionMiddleware, _ := session.NewWithStore(session.Config{CookieHTTPOnly: true, CookieSameSite: "Lax"})
	app.Use(sessionMiddleware)

	app.Get("/admin/login", h.LoginPage)
	app.Post("/admin/login", h.PasswordLogin)
	app.Get("/admin/auth/login", h.SSOLogin)
	app.Get("/admin/logout", h.Logout)
	app.Get("/admin", middleware.RequireAdminPage, func(c fiber.Ctx) error {
		return c.SendString("dashboard for " + middleware.AdminFrom(c).Label())
	})
	return app
}

func postLogin(t *testing.T, app *fiber.App, password string) *http.Response {
	t.Helper()
	form := url.Values{"password": {password}, "name": {"운영자"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAdminPasswordLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	app := newAdminAuthApp(t, hash)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `name="password"`)
	assert.NotContains(t, body, "Sign in with SSO")

	resp = postLogin(t, app, "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Incorrect password.")

	resp = postLogin(t, app, "correct horse")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dashboard for 운영자", readBody(t, resp))
}

func TestAdminPasswordLogin_Disabled(t *testing.T) {
	app := newAdminAuthApp(t, "")

	resp := postLogin(t, app, "anything")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
