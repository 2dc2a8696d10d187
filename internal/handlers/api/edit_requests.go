package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"crewhub/internal/db"
	"crewhub/internal/middleware"
	"crewhub/internal/models"
	"crewhub/internal/moderation"
	"crewhub/internal/validation"
)

// EditRequestService is the moderation workflow as seen by the HTTP layer.
// *moderation.Service satisfies it.
type EditRequestService interface {
	Submit(ctx context.Context, actor *models.Actor, sub moderation.Submission) (*models.EditRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.EditRequest, error)
	List(ctx context.Context, status string) ([]models.EditRequest, error)
	ListByCrew(ctx context.Context, actor *models.Actor) ([]models.EditRequest, error)
	Decide(ctx context.Context, id uuid.UUID, decision, comment string, admin *models.Admin) (*moderation.Decision, error)
	Cancel(ctx context.Context, actor *models.Actor, id uuid.UUID) (*models.EditRequest, error)
}

// EditRequestHandler serves the crew and admin edit request endpoints.
type EditRequestHandler struct {
	service EditRequestService
}

// NewEditRequestHandler creates a new edit request handler.
func NewEditRequestHandler(service EditRequestService) *EditRequestHandler {
	return &EditRequestHandler{service: service}
}

// Submit stores the calling crew's proposed changes as a pending request.
func (h *EditRequestHandler) Submit(c fiber.Ctx) error {
	var sub moderation.Submission
	if err := json.Unmarshal(c.Body(), &sub); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req, err := h.service.Submit(c.Context(), middleware.ActorFrom(c), sub)
	if err != nil {
		return editRequestError(c, err)
	}

	return jsonSuccess(c, fiber.Map{
		"success":   true,
		"requestId": req.ID,
	})
}

// ListMine returns the calling crew's requests with status and comment.
func (h *EditRequestHandler) ListMine(c fiber.Ctx) error {
	requests, err := h.service.ListByCrew(c.Context(), middleware.ActorFrom(c))
	if err != nil {
		return editRequestError(c, err)
	}
	return jsonSuccess(c, requests)
}

// Cancel withdraws one of the calling crew's pending requests.
func (h *EditRequestHandler) Cancel(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	req, err := h.service.Cancel(c.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return editRequestError(c, err)
	}

	return jsonSuccess(c, fiber.Map{
		"message": "edit request cancelled",
		"request": req,
	})
}

// List returns all requests for administrators, newest first. The optional
// status query narrows the list.
func (h *EditRequestHandler) List(c fiber.Ctx) error {
	status := c.Query("status", "")
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusCancelled:
	default:
		return jsonError(c, fiber.StatusBadRequest, "unknown status")
	}

	requests, err := h.service.List(c.Context(), status)
	if err != nil {
		return editRequestError(c, err)
	}
	return jsonSuccess(c, requests)
}

// Get returns one request for administrators.
func (h *EditRequestHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	req, err := h.service.Get(c.Context(), id)
	if err != nil {
		return editRequestError(c, err)
	}
	return jsonSuccess(c, req)
}

// Decide approves or rejects a pending request.
func (h *EditRequestHandler) Decide(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var body struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	decision, err := h.service.Decide(c.Context(), id, body.Status, body.Comment, middleware.AdminFrom(c))
	if err != nil {
		return editRequestError(c, err)
	}

	return jsonSuccess(c, fiber.Map{
		"message": decision.Message(),
		"request": decision.Request,
		"report":  decision.Report,
	})
}

// editRequestError maps workflow errors to responses. Anything unexpected
// is logged and reported generically.
func editRequestError(c fiber.Ctx, err error) error {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  fieldErr.Message,
			"field":  fieldErr.Field,
		})
	case errors.Is(err, moderation.ErrNotAuthenticated):
		return jsonError(c, fiber.StatusUnauthorized, "crew login required")
	case errors.Is(err, moderation.ErrInvalidCrewReference):
		return jsonError(c, fiber.StatusBadRequest, "invalid crew identity")
	case errors.Is(err, moderation.ErrInvalidDecision):
		return jsonError(c, fiber.StatusBadRequest, "status must be approved or rejected")
	case errors.Is(err, moderation.ErrCommentRequired):
		return jsonError(c, fiber.StatusBadRequest, "a comment is required to reject a request")
	case errors.Is(err, db.ErrEditRequestNotFound):
		return jsonError(c, fiber.StatusNotFound, "edit request not found")
	case errors.Is(err, db.ErrAlreadyProcessed):
		return jsonError(c, fiber.StatusBadRequest, "this edit request was already processed")
	case errors.Is(err, db.ErrDuplicatePendingRequest):
		return jsonError(c, fiber.StatusConflict, "this crew already has a pending edit request")
	default:
		slog.Error("edit request operation failed", "path", c.Path(), "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "something went wrong, please try again")
	}
}
