package moderation

import (
	"context"

	"github.com/google/uuid"

	"crewhub/internal/models"
)

// RequestStore persists edit requests and their status transitions.
// *db.DB satisfies it.
type RequestStore interface {
	CreateEditRequest(ctx context.Context, req *models.EditRequest) error
	GetEditRequestByID(ctx context.Context, id uuid.UUID) (*models.EditRequest, error)
	ListEditRequests(ctx context.Context, status string) ([]models.EditRequest, error)
	ListDecidedEditRequests(ctx context.Context, limit int) ([]models.EditRequest, error)
	ListEditRequestsByCrew(ctx context.Context, crewID uuid.UUID) ([]models.EditRequest, error)
	DecideEditRequest(ctx context.Context, id uuid.UUID, status string, comment *string, decidedBy string) (*models.EditRequest, error)
	CancelEditRequest(ctx context.Context, id, crewID uuid.UUID) (*models.EditRequest, error)
}

// CrewWriter is the set of crew mutations an approved request can cause.
type CrewWriter interface {
	UpdateCrewDescription(ctx context.Context, crewID uuid.UUID, description string) error
	UpdateCrewInstagram(ctx context.Context, crewID uuid.UUID, instagram *string) error
	UpdateCrewLogo(ctx context.Context, crewID uuid.UUID, logoURL *string) error
	ReplaceChildren(ctx context.Context, crewID uuid.UUID, set models.ChildSet) error
}

// Notifier is told about lifecycle events after they are persisted.
// Implementations must not block the caller for long and must swallow
// their own errors.
type Notifier interface {
	EditRequestSubmitted(ctx context.Context, req *models.EditRequest)
	EditRequestDecided(ctx context.Context, req *models.EditRequest, report *Report)
	EditRequestCancelled(ctx context.Context, req *models.EditRequest)
}

// Notifiers fans each event out to every member.
type Notifiers []Notifier

func (ns Notifiers) EditRequestSubmitted(ctx context.Context, req *models.EditRequest) {
	for _, n := range ns {
		n.EditRequestSubmitted(ctx, req)
	}
}

func (ns Notifiers) EditRequestDecided(ctx context.Context, req *models.EditRequest, report *Report) {
	for _, n := range ns {
		n.EditRequestDecided(ctx, req, report)
	}
}

func (ns Notifiers) EditRequestCancelled(ctx context.Context, req *models.EditRequest) {
	for _, n := range ns {
		n.EditRequestCancelled(ctx, req)
	}
}
