package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crewhub/internal/auth"
	"crewhub/internal/config"
	"crewhub/internal/db"
	"crewhub/internal/handlers"
	"crewhub/internal/handlers/api"
	"crewhub/internal/middleware"
	"crewhub/internal/moderation"
	"crewhub/internal/region"
)

// Deps are the wired services the routes hand to handlers.
type Deps struct {
	DB         *db.DB
	YAML       *config.YAMLConfig
	Moderation *moderation.Service
	Tokens     *auth.TokenIssuer
	Regions    *region.Classifier
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	// Initialize middleware
	crewAuth := middleware.NewCrewAuth(deps.Tokens, deps.DB, s.Cfg.AllowLegacyCrewCookies)
	if s.Cfg.AllowLegacyCrewCookies {
		slog.Warn("legacy crew_id/account_id cookies are accepted")
	}

	// Initialize handlers
	editRequestHandler := api.NewEditRequestHandler(deps.Moderation)
	crewHandler := api.NewCrewHandler(deps.DB, deps.Regions)
	crewAuthHandler := api.NewCrewAuthHandler(deps.DB, deps.Tokens, s.Cfg.TLSEnabled || !s.Cfg.IsDev())
	moderationHandler := handlers.NewModerationHandler(deps.Moderation, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.DB)

	adminAuthHandler, err := handlers.NewAdminAuthHandler(ctx, s.Cfg, deps.YAML)
	if err != nil {
		return err
	}
	if !s.Cfg.IsOIDCEnabled() && s.Cfg.AdminPasswordHash == "" {
		slog.Warn("no admin login method configured; set OIDC_* or ADMIN_PASSWORD_HASH")
	}

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public crew directory
	s.App.Get("/api/crews", crewHandler.List)
	s.App.Get("/api/crews/:id", crewHandler.Get)

	// Crew account session
	s.App.Post("/api/crew/login", crewAuthHandler.Login)
	s.App.Post("/api/crew/logout", crewAuthHandler.Logout)

	// Crew-facing edit requests
	s.App.Post("/crew-edit-requests", crewAuth.RequireCrew, editRequestHandler.Submit)
	s.App.Get("/crew-edit-requests", crewAuth.RequireCrew, editRequestHandler.ListMine)
	s.App.Post("/crew-edit-requests/:id/cancel", crewAuth.RequireCrew, editRequestHandler.Cancel)

	// Admin auth
	s.App.Get("/admin/login", adminAuthHandler.LoginPage)
	s.App.Post("/admin/login", adminAuthHandler.PasswordLogin)
	s.App.Get("/admin/auth/login", adminAuthHandler.SSOLogin)
	s.App.Get("/admin/auth/callback", adminAuthHandler.Callback)
	s.App.Get("/admin/logout", adminAuthHandler.Logout)

	// Admin JSON API
	s.App.Get("/admin/edit-requests", middleware.RequireAdminAPI, editRequestHandler.List)
	s.App.Get("/admin/edit-requests/:id", middleware.RequireAdminAPI, editRequestHandler.Get)
	s.App.Post("/admin/edit-requests/:id/decision", middleware.RequireAdminAPI, editRequestHandler.Decide)
	s.App.Post("/admin/crews/:id/visibility", middleware.RequireAdminAPI, crewHandler.SetVisibility)

	// Admin dashboard
	s.App.Get("/admin", middleware.RequireAdminPage, moderationHandler.Index)
	s.App.Get("/admin/requests/:id", middleware.RequireAdminPage, moderationHandler.Show)
	s.App.Post("/admin/requests/:id/decision", middleware.RequireAdminPage, moderationHandler.Decide)

	return nil
}
