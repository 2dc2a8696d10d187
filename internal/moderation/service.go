// Package moderation implements the crew edit request workflow: a crew
// submits a sparse set of profile changes, an administrator approves or
// rejects it, and approved changes are written onto the crew.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"crewhub/internal/db"
	"crewhub/internal/metrics"
	"crewhub/internal/models"
)

var (
	// ErrNotAuthenticated means no crew account identity was resolved.
	ErrNotAuthenticated = errors.New("crew authentication required")
	// ErrInvalidCrewReference means the crew identity is missing, malformed
	// or unknown.
	ErrInvalidCrewReference = errors.New("invalid crew reference")
	// ErrInvalidDecision means the decision is neither approved nor rejected.
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	// ErrCommentRequired means a rejection was sent without a comment.
	ErrCommentRequired = errors.New("a comment is required when rejecting")
)

// Decision is the result of a successful moderation decision. Report is nil
// for rejections.
type Decision struct {
	Request *models.EditRequest
	Report  *Report
}

// Message is the confirmation shown to the administrator.
func (d *Decision) Message() string {
	switch {
	case d.Request.Status == models.StatusRejected:
		return "The edit request was rejected."
	case d.Report.OK():
		return "The edit request was approved and the crew profile was updated."
	default:
		return "The edit request was approved. Some fields could not be updated and were logged."
	}
}

// Service coordinates the collector, the request store, the applier and
// notifications.
type Service struct {
	store     RequestStore
	collector *Collector
	applier   *Applier
	notifier  Notifier
	logger    *slog.Logger
}

// NewService creates a moderation service. notifier may be nil.
func NewService(store RequestStore, crews CrewWriter, collector *Collector, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &Service{
		store:     store,
		collector: collector,
		applier:   NewApplier(crews, logger),
		notifier:  notifier,
		logger:    logger,
	}
}

// Submit validates the submission and stores it as a pending request for
// the actor's crew.
func (s *Service) Submit(ctx context.Context, actor *models.Actor, sub Submission) (*models.EditRequest, error) {
	if actor == nil || actor.AccountID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if actor.CrewID == uuid.Nil {
		return nil, ErrInvalidCrewReference
	}

	changes, err := s.collector.Collect(sub)
	if err != nil {
		return nil, err
	}

	req := &models.EditRequest{
		CrewID:    actor.CrewID,
		AccountID: actor.AccountID,
		Changes:   changes,
	}
	if err := s.store.CreateEditRequest(ctx, req); err != nil {
		switch {
		case errors.Is(err, db.ErrCrewNotFound):
			return nil, ErrInvalidCrewReference
		case errors.Is(err, db.ErrAccountNotFound):
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	s.logger.Info("edit request submitted",
		"request_id", req.ID,
		"crew_id", req.CrewID,
		"fields", req.Fields(),
	)
	metrics.RecordSubmission()
	s.notifier.EditRequestSubmitted(ctx, req)

	return req, nil
}

// Get returns one request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.EditRequest, error) {
	return s.store.GetEditRequestByID(ctx, id)
}

// ListPending returns requests awaiting a decision, newest first.
func (s *Service) ListPending(ctx context.Context) ([]models.EditRequest, error) {
	return s.store.ListEditRequests(ctx, models.StatusPending)
}

// ListDecided returns the most recently decided or cancelled requests.
func (s *Service) ListDecided(ctx context.Context, limit int) ([]models.EditRequest, error) {
	if limit <= 0 {
		return []models.EditRequest{}, nil
	}
	return s.store.ListDecidedEditRequests(ctx, limit)
}

// List returns requests with the given status, or all when status is empty.
func (s *Service) List(ctx context.Context, status string) ([]models.EditRequest, error) {
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusCancelled:
		return s.store.ListEditRequests(ctx, status)
	default:
		return nil, fmt.Errorf("unknown status %q", status)
	}
}

// ListByCrew returns the actor's own requests, newest first.
func (s *Service) ListByCrew(ctx context.Context, actor *models.Actor) ([]models.EditRequest, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if actor.CrewID == uuid.Nil {
		return nil, ErrInvalidCrewReference
	}
	return s.store.ListEditRequestsByCrew(ctx, actor.CrewID)
}

// Decide moves a pending request to approved or rejected. The status change
// is persisted first; only an approval then applies the changes. Failures
// while applying are reported in Decision.Report and never undo the
// decision.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, decision, comment string, admin *models.Admin) (*Decision, error) {
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, ErrInvalidDecision
	}

	comment = strings.TrimSpace(comment)
	if decision == models.StatusRejected && comment == "" {
		return nil, ErrCommentRequired
	}
	var commentPtr *string
	if comment != "" {
		commentPtr = &comment
	}

	req, err := s.store.DecideEditRequest(ctx, id, decision, commentPtr, admin.Label())
	if err != nil {
		return nil, err
	}
	metrics.RecordDecision(decision)

	result := &Decision{Request: req}
	if decision == models.StatusApproved {
		result.Report = s.applier.Apply(ctx, req)
	}

	s.logger.Info("edit request decided",
		"request_id", req.ID,
		"crew_id", req.CrewID,
		"status", req.Status,
		"decided_by", admin.Label(),
		"failed_fields", result.Report.FailedFields(),
	)
	s.notifier.EditRequestDecided(ctx, req, result.Report)

	return result, nil
}

// Cancel withdraws a pending request belonging to the actor's crew.
func (s *Service) Cancel(ctx context.Context, actor *models.Actor, id uuid.UUID) (*models.EditRequest, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if actor.CrewID == uuid.Nil {
		return nil, ErrInvalidCrewReference
	}

	req, err := s.store.CancelEditRequest(ctx, id, actor.CrewID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("edit request cancelled", "request_id", req.ID, "crew_id", req.CrewID)
	s.notifier.EditRequestCancelled(ctx, req)
	return req, nil
}
