package models

import (
	"time"

	"github.com/google/uuid"
)

// Crew is a running club profile. Child collections are loaded alongside it
// for detail views and left empty in listings that do not need them.
type Crew struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Instagram   *string    `json:"instagram"`
	FoundedAt   *time.Time `json:"founded_at"`
	LogoURL     *string    `json:"logo_url"`
	Visible     bool       `json:"is_visible"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Location          *CrewLocation `json:"location,omitempty"`
	ActivityDays      []string      `json:"activity_days"`
	ActivityLocations []string      `json:"activity_locations"`
	AgeRange          *AgeRange     `json:"age_range"`
	Photos            []CrewPhoto   `json:"photos"`

	// Derived from Location.Address for directory filtering
	Region string `json:"region,omitempty"`
}

// CrewLocation is the crew's meeting address.
type CrewLocation struct {
	Address       string  `json:"address"`
	DetailAddress *string `json:"detail_address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// AgeRange is an inclusive member age bracket.
type AgeRange struct {
	MinAge int `json:"min_age"`
	MaxAge int `json:"max_age"`
}

// CrewPhoto is an activity photo shown on the crew profile.
type CrewPhoto struct {
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

// HasActivityDay reports whether the crew runs on the given weekday label.
func (c *Crew) HasActivityDay(day string) bool {
	for _, d := range c.ActivityDays {
		if d == day {
			return true
		}
	}
	return false
}
