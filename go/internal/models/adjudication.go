package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Penalty adds Seconds to a racer's final time. Penalties accumulate.
type Penalty struct {
	ID        uuid.UUID `json:"id"`
	RacerID   uuid.UUID `json:"racer_id"`
	Seconds   int       `json:"seconds"`
	Reason    string    `json:"reason"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// DnfRecord marks a racer as did-not-finish. At most one per racer.
type DnfRecord struct {
	ID           uuid.UUID  `json:"id"`
	RacerID      uuid.UUID  `json:"racer_id"`
	CheckpointID *uuid.UUID `json:"checkpoint_id,omitempty"`
	Reason       string     `json:"reason"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AuditAction names an adjudication action.
type AuditAction string

const (
	AuditActionAddPenalty    AuditAction = "add_penalty"
	AuditActionMarkDnf       AuditAction = "mark_dnf"
	AuditActionEditTimestamp AuditAction = "edit_timestamp"
)

// AuditTargetType names the kind of entity an audit entry refers to.
type AuditTargetType string

const (
	AuditTargetRacer     AuditTargetType = "racer"
	AuditTargetTimestamp AuditTargetType = "timestamp"
)

// AuditLogEntry is an immutable record of one adjudication action.
type AuditLogEntry struct {
	ID         uuid.UUID       `json:"id"`
	EventID    uuid.UUID       `json:"event_id"`
	AdminID    uuid.UUID       `json:"admin_id"`
	Action     AuditAction     `json:"action"`
	TargetType AuditTargetType `json:"target_type"`
	TargetID   uuid.UUID       `json:"target_id"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	Reason     string          `json:"reason"`
	CreatedAt  time.Time       `json:"created_at"`
}
