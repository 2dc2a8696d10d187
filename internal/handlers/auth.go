package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"crewhub/internal/auth"
	"crewhub/internal/config"
	"crewhub/internal/middleware"
	"crewhub/internal/models"
)

// AdminAuthHandler signs administrators in through SSO or the shared admin
// password.
type AdminAuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	cfg          *config.Config
	yaml         *config.YAMLConfig
}

// NewAdminAuthHandler creates the handler. SSO is only set up when OIDC is
// configured.
func NewAdminAuthHandler(ctx context.Context, cfg *config.Config, yamlCfg *config.YAMLConfig) (*AdminAuthHandler, error) {
	h := &AdminAuthHandler{cfg: cfg, yaml: yamlCfg}
	if !cfg.IsOIDCEnabled() {
		return h, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	h.provider = provider
	h.oauth2Config = oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	h.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})
	return h, nil
}

func (h *AdminAuthHandler) ssoEnabled() bool {
	return h.provider != nil
}

// LoginPage renders the admin login form.
func (h *AdminAuthHandler) LoginPage(c fiber.Ctx) error {
	if middleware.AdminFromSession(session.FromContext(c)) != nil {
		return c.Redirect().To("/admin")
	}
	return h.renderLogin(c, fiber.StatusOK, "")
}

func (h *AdminAuthHandler) renderLogin(c fiber.Ctx, status int, message string) error {
	return c.Status(status).Render("admin/login", MergeBranding(fiber.Map{
		"Title":           "Admin login",
		"SSOEnabled":      h.ssoEnabled(),
		"PasswordEnabled": h.cfg.AdminPasswordHash != "",
		"Error":           message,
	}, h.cfg))
}

// PasswordLogin checks the shared admin password.
func (h *AdminAuthHandler) PasswordLogin(c fiber.Ctx) error {
	if h.cfg.AdminPasswordHash == "" {
		return fiber.NewError(fiber.StatusNotFound, "password login is disabled")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	if !auth.CheckPassword(h.cfg.AdminPasswordHash, c.FormValue("password")) {
		slog.Warn("failed admin password login", "ip", c.IP())
		return h.renderLogin(c, fiber.StatusUnauthorized, "Incorrect password.")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = "admin"
	}
	if err := middleware.SetAdmin(sess, &models.Admin{Name: name}); err != nil {
		return err
	}

	slog.Info("admin signed in", "method", "password", "name", name)
	return c.Redirect().To("/admin")
}

// SSOLogin initiates the OIDC login flow.
func (h *AdminAuthHandler) SSOLogin(c fiber.Ctx) error {
	if !h.ssoEnabled() {
		return fiber.NewError(fiber.StatusNotFound, "single sign-on is not configured")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	state := generateState()
	sess.Set("oauth_state", state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback and grants the admin session to
// allowlisted emails.
func (h *AdminAuthHandler) Callback(c fiber.Ctx) error {
	if !h.ssoEnabled() {
		return fiber.NewError(fiber.StatusNotFound, "single sign-on is not configured")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	// Verify state
	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only return email from the userinfo endpoint
	if claims.Email == "" {
		userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
		if err != nil {
			slog.Warn("failed to fetch userinfo", "error", err)
		} else {
			claims.Email = userInfo.Email
			verified := userInfo.EmailVerified
			claims.EmailVerified = &verified
		}
	}

	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return fiber.NewError(fiber.StatusForbidden, "email address is not verified")
	}
	if !h.yaml.IsAdminEmail(claims.Email) {
		slog.Warn("SSO login rejected, not an admin", "email", claims.Email)
		return fiber.NewError(fiber.StatusForbidden, "this account is not an administrator")
	}

	if err := middleware.SetAdmin(sess, &models.Admin{Email: claims.Email, Name: claims.Name}); err != nil {
		return err
	}

	slog.Info("admin signed in", "method", "sso", "email", claims.Email)
	return c.Redirect().To("/admin")
}

// Logout clears the admin session.
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess != nil {
		sess.Destroy()
	}
	return c.Redirect().To("/admin/login")
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
