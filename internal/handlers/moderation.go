package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"crewhub/internal/config"
	"crewhub/internal/db"
	"crewhub/internal/middleware"
	"crewhub/internal/models"
	"crewhub/internal/moderation"
)

// DashboardService is the part of the moderation workflow the admin pages
// use. *moderation.Service satisfies it.
type DashboardService interface {
	ListPending(ctx context.Context) ([]models.EditRequest, error)
	ListDecided(ctx context.Context, limit int) ([]models.EditRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.EditRequest, error)
	Decide(ctx context.Context, id uuid.UUID, decision, comment string, admin *models.Admin) (*moderation.Decision, error)
}

// recentDecisions caps the decided list shown under the pending queue.
const recentDecisions = 20

// ModerationHandler renders the admin dashboard.
type ModerationHandler struct {
	service DashboardService
	cfg     *config.Config
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(service DashboardService, cfg *config.Config) *ModerationHandler {
	return &ModerationHandler{service: service, cfg: cfg}
}

// Index renders pending requests with approve and reject forms, followed by
// recently decided ones.
func (h *ModerationHandler) Index(c fiber.Ctx) error {
	pending, err := h.service.ListPending(c.Context())
	if err != nil {
		return err
	}
	decided, err := h.service.ListDecided(c.Context(), recentDecisions)
	if err != nil {
		return err
	}

	return c.Render("admin/dashboard", MergeBranding(fiber.Map{
		"Title":   "Edit requests",
		"Admin":   middleware.AdminFrom(c),
		"Pending": pending,
		"Decided": decided,
	}, h.cfg))
}

// Show renders one request with its full changes payload.
func (h *ModerationHandler) Show(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request id")
	}

	req, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrEditRequestNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "edit request not found")
		}
		return err
	}

	return c.Render("admin/request", MergeBranding(fiber.Map{
		"Title":   "Edit request",
		"Admin":   middleware.AdminFrom(c),
		"Request": req,
	}, h.cfg))
}

// Decide handles the dashboard's HTMX approve and reject forms.
func (h *ModerationHandler) Decide(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return htmxError(c, "Invalid request id.")
	}

	decision, err := h.service.Decide(c.Context(), id, c.FormValue("status"), c.FormValue("comment"), middleware.AdminFrom(c))
	switch {
	case err == nil:
	case errors.Is(err, moderation.ErrCommentRequired):
		return htmxError(c, "Please enter a reason when rejecting a request.")
	case errors.Is(err, moderation.ErrInvalidDecision):
		return htmxError(c, "Choose approve or reject.")
	case errors.Is(err, db.ErrAlreadyProcessed):
		return htmxError(c, "This request was already processed by someone else.")
	case errors.Is(err, db.ErrEditRequestNotFound):
		return htmxError(c, "This request no longer exists.")
	default:
		slog.Error("dashboard decision failed", "request_id", id, "error", err)
		return htmxError(c, "Something went wrong. Please try again.")
	}

	return c.Render("partials/decision_result", fiber.Map{
		"Request": decision.Request,
		"Message": decision.Message(),
		"Failed":  decision.Report.FailedFields(),
	}, "")
}
