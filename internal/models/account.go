package models

import (
	"time"

	"github.com/google/uuid"
)

// CrewAccount is the login a crew uses to manage its own profile.
type CrewAccount struct {
	ID           uuid.UUID `json:"id"`
	CrewID       uuid.UUID `json:"crew_id"`
	LoginID      string    `json:"login_id"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the crew-side identity resolved for a request.
type Actor struct {
	CrewID    uuid.UUID
	AccountID uuid.UUID
}

// Admin is the moderator identity stored in the admin session.
type Admin struct {
	Email string
	Name  string
}

// Label identifies the admin in audit columns and logs.
func (a *Admin) Label() string {
	if a == nil {
		return ""
	}
	if a.Email != "" {
		return a.Email
	}
	return a.Name
}
