package accesscode

import "github.com/google/uuid"

// CodeSession is what a staff device learns from a valid access code.
type CodeSession struct {
	CheckpointID   uuid.UUID `json:"checkpoint_id"`
	CheckpointName string    `json:"checkpoint_name"`
	EventID        uuid.UUID `json:"event_id"`
	EventName      string    `json:"event_name"`
}
