package models

import (
	"time"

	"github.com/google/uuid"
)

// Edit request status values.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// EditRequest is one submitted Changes payload and its moderation outcome.
// Once the status leaves pending the row is never modified again.
type EditRequest struct {
	ID           uuid.UUID  `json:"id"`
	CrewID       uuid.UUID  `json:"crew_id"`
	AccountID    uuid.UUID  `json:"account_id"`
	Changes      Changes    `json:"changes"`
	Status       string     `json:"status"`
	AdminComment *string    `json:"admin_comment"`
	DecidedBy    *string    `json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Non-DB field, populated via JOIN for display
	CrewName string `json:"crew_name,omitempty"`
}

// IsPending reports whether the request still awaits a decision.
func (r *EditRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Fields returns the changed keys, for templates and notifications.
func (r *EditRequest) Fields() []string {
	return r.Changes.Keys()
}
