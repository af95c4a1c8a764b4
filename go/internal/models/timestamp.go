package models

import (
	"time"

	"github.com/google/uuid"
)

// Timestamp is a racer's passage through a checkpoint. At most one exists
// per (racer, checkpoint).
type Timestamp struct {
	ID           uuid.UUID  `json:"id"`
	CheckpointID uuid.UUID  `json:"checkpoint_id"`
	RacerID      uuid.UUID  `json:"racer_id"`
	RecordedAt   time.Time  `json:"recorded_at"`
	RecordedBy   *uuid.UUID `json:"recorded_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CheckpointPassage is a timestamp joined with the checkpoint it belongs to.
type CheckpointPassage struct {
	Timestamp
	CheckpointName string `json:"checkpoint_name"`
	SortOrder      int    `json:"sort_order"`
}
