package adjudication

import (
	"time"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/models"
)

type AddPenaltyRequest struct {
	RacerID uuid.UUID
	Seconds int
	Reason  string
}

type MarkDnfRequest struct {
	RacerID      uuid.UUID
	CheckpointID *uuid.UUID
	Reason       string
}

type EditTimestampRequest struct {
	TimestampID uuid.UUID
	RecordedAt  time.Time
	Reason      string
}

// AuditRecord is the audit entry written alongside a ledger change.
// OldValue and NewValue are marshalled to JSON; nil stores NULL.
type AuditRecord struct {
	EventID    uuid.UUID
	AdminID    uuid.UUID
	Action     models.AuditAction
	TargetType models.AuditTargetType
	TargetID   uuid.UUID
	OldValue   any
	NewValue   any
	Reason     string
}

type penaltyValue struct {
	Seconds int    `json:"seconds"`
	Reason  string `json:"reason"`
}

type dnfValue struct {
	Reason       string     `json:"reason"`
	CheckpointID *uuid.UUID `json:"checkpoint_id"`
}

type recordedAtValue struct {
	RecordedAt time.Time `json:"recorded_at"`
}
