package outbox

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is one unsent change row from race_outbox.
type OutboxEvent struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Entity    string    `json:"entity"`
	CreatedAt time.Time `json:"created_at"`
}

// Envelope is the message body published for every outbox row.
type Envelope struct {
	OutboxID  uuid.UUID `json:"outbox_id"`
	EventID   uuid.UUID `json:"event_id"`
	Entity    string    `json:"entity"`
	ChangedAt time.Time `json:"changed_at"`
}
