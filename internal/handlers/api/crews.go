package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"crewhub/internal/db"
	"crewhub/internal/models"
	"crewhub/internal/region"
	"crewhub/internal/validation"
)

// CrewDirectory reads and toggles crews. *db.DB satisfies it.
type CrewDirectory interface {
	ListVisibleCrews(ctx context.Context) ([]models.Crew, error)
	GetCrewByID(ctx context.Context, id uuid.UUID) (*models.Crew, error)
	SetCrewVisibility(ctx context.Context, id uuid.UUID, visible bool) error
}

// CrewHandler serves the public crew directory.
type CrewHandler struct {
	crews   CrewDirectory
	regions *region.Classifier
}

// NewCrewHandler creates a new crew handler.
func NewCrewHandler(crews CrewDirectory, regions *region.Classifier) *CrewHandler {
	return &CrewHandler{crews: crews, regions: regions}
}

// List returns visible crews, optionally narrowed by region and activity day.
func (h *CrewHandler) List(c fiber.Ctx) error {
	day := c.Query("day", "")
	if day != "" {
		if _, fe := validation.NormalizeActivityDays([]string{day}); fe != nil {
			return jsonError(c, fiber.StatusBadRequest, fe.Message)
		}
	}

	crews, err := h.crews.ListVisibleCrews(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch crews")
	}

	h.regions.Annotate(crews)
	crews = region.Filter(crews, c.Query("region", ""))

	if day != "" {
		filtered := make([]models.Crew, 0, len(crews))
		for _, crew := range crews {
			if crew.HasActivityDay(day) {
				filtered = append(filtered, crew)
			}
		}
		crews = filtered
	}

	return jsonSuccess(c, crews)
}

// Get returns one visible crew with its child collections.
func (h *CrewHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid crew id")
	}

	crew, err := h.crews.GetCrewByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrCrewNotFound) {
			return jsonError(c, fiber.StatusNotFound, "crew not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch crew")
	}
	if !crew.Visible {
		return jsonError(c, fiber.StatusNotFound, "crew not found")
	}

	if crew.Location != nil {
		crew.Region = h.regions.Classify(crew.Location.Address)
	}
	return jsonSuccess(c, crew)
}

// SetVisibility shows or hides a crew in the directory. Admin only.
func (h *CrewHandler) SetVisibility(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid crew id")
	}

	var body struct {
		Visible *bool `json:"visible"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.Visible == nil {
		return jsonError(c, fiber.StatusBadRequest, "visible is required")
	}

	if err := h.crews.SetCrewVisibility(c.Context(), id, *body.Visible); err != nil {
		if errors.Is(err, db.ErrCrewNotFound) {
			return jsonError(c, fiber.StatusNotFound, "crew not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update crew")
	}

	return jsonSuccess(c, fiber.Map{
		"id":      id,
		"visible": *body.Visible,
	})
}
