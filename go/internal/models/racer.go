package models

import (
	"time"

	"github.com/google/uuid"
)

// Racer is a registered participant. A racer may hold entries in several classes.
type Racer struct {
	ID        uuid.UUID    `json:"id"`
	EventID   uuid.UUID    `json:"event_id"`
	Name      string       `json:"name"`
	Team      *string      `json:"team,omitempty"`
	Entries   []RacerEntry `json:"entries,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// RacerEntry is a racer's registration in one class (a racer_classes row).
// RaceNumber is unique within the class.
type RacerEntry struct {
	ID         uuid.UUID `json:"id"`
	RacerID    uuid.UUID `json:"racer_id"`
	ClassID    uuid.UUID `json:"class_id"`
	ClassName  string    `json:"class_name"`
	RaceNumber int       `json:"race_number"`
	Confirmed  bool      `json:"confirmed"`
	CreatedAt  time.Time `json:"created_at"`
}
