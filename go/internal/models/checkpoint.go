package models

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint is a timing point. SortOrder defines the expected traversal sequence.
type Checkpoint struct {
	ID            uuid.UUID `json:"id"`
	EventID       uuid.UUID `json:"event_id"`
	Name          string    `json:"name"`
	SortOrder     int       `json:"sort_order"`
	AccessCode    string    `json:"access_code,omitempty"`
	CodeExpiresAt time.Time `json:"code_expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// CodeLive reports whether the access code can still be used at now.
func (c *Checkpoint) CodeLive(now time.Time) bool {
	return c.CodeExpiresAt.After(now)
}
