package gateway

import (
	"time"

	"github.com/google/uuid"
)

// FrameType names the messages pushed to websocket clients.
type FrameType string

const (
	// FrameRecompute tells the client its event's standings changed and
	// should be fetched again.
	FrameRecompute FrameType = "recompute"
)

// Frame is the only payload sent over the socket. It carries no rankings.
type Frame struct {
	Type    FrameType `json:"type"`
	EventID uuid.UUID `json:"event_id"`
	At      time.Time `json:"at"`
}

func recomputeFrame(eventID uuid.UUID, at time.Time) *Frame {
	return &Frame{Type: FrameRecompute, EventID: eventID, At: at.UTC()}
}
