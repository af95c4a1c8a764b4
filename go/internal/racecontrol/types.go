package racecontrol

import (
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/models"
)

// Snapshot is the organizer's race-control view of one event.
type Snapshot struct {
	Event       *models.Event       `json:"event"`
	Classes     []models.RaceClass  `json:"classes"`
	Checkpoints []models.Checkpoint `json:"checkpoints"`
	Racers      []models.Racer      `json:"racers"`
	Timestamps  []models.Timestamp  `json:"timestamps"`
	Penalties   []models.Penalty    `json:"penalties"`
	DnfRecords  []models.DnfRecord  `json:"dnf_records"`
}

// RacerHistory is one racer's passages and the adjudication applied to them.
type RacerHistory struct {
	Racer     *models.Racer              `json:"racer"`
	Passages  []models.CheckpointPassage `json:"passages"`
	AuditLogs []models.AuditLogEntry     `json:"audit_logs"`
}

// ClassCheckpoints maps a class to the checkpoints its course uses. A class
// absent from the map uses every checkpoint.
type ClassCheckpoints map[uuid.UUID][]uuid.UUID
