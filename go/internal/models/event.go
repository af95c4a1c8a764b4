package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single race day owned by one organizer.
type Event struct {
	ID                 uuid.UUID  `json:"id"`
	AdminID            uuid.UUID  `json:"admin_id"`
	Slug               string     `json:"slug"`
	Name               string     `json:"name"`
	RaceDate           time.Time  `json:"race_date"`
	RegistrationOpens  *time.Time `json:"registration_opens,omitempty"`
	RegistrationCloses *time.Time `json:"registration_closes,omitempty"`
	Published          bool       `json:"published"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// OwnedBy reports whether the organizer administers this event.
func (e *Event) OwnedBy(adminID uuid.UUID) bool {
	return e != nil && adminID != uuid.Nil && e.AdminID == adminID
}

// RaceClass is a competition category within an event.
type RaceClass struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
