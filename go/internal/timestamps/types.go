package timestamps

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeStatus distinguishes a fresh punch from a repeat one. A duplicate is
// not an error.
type OutcomeStatus string

const (
	OutcomeRecorded  OutcomeStatus = "recorded"
	OutcomeDuplicate OutcomeStatus = "duplicate"
)

// RecordRequest is a single punch from a checkpoint.
type RecordRequest struct {
	CheckpointID uuid.UUID
	RacerNumber  int
	RecordedBy   *uuid.UUID
}

// Outcome is what the staff device shows after a punch.
type Outcome struct {
	Status      OutcomeStatus `json:"outcome"`
	TimestampID *uuid.UUID    `json:"timestamp_id,omitempty"`
	RacerID     uuid.UUID     `json:"racer_id"`
	RacerName   string        `json:"racer_name"`
	RecordedAt  *time.Time    `json:"recorded_at,omitempty"`
}

// RacerMatch is a racer resolved from a race number.
type RacerMatch struct {
	RacerID   uuid.UUID
	RacerName string
}
