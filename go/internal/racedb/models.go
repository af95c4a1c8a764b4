package racedb

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type AuditLog struct {
	ID         uuid.UUID
	EventID    uuid.UUID
	AdminID    uuid.UUID
	Action     string
	TargetType string
	TargetID   uuid.UUID
	OldValue   pqtype.NullRawMessage
	NewValue   pqtype.NullRawMessage
	Reason     sql.NullString
	CreatedAt  time.Time
}

type Checkpoint struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	Name          string
	SortOrder     int32
	AccessCode    string
	CodeExpiresAt time.Time
	CreatedAt     time.Time
}

type Class struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	Name      string
	SortOrder int32
	CreatedAt time.Time
}

type ClassCheckpoint struct {
	ClassID      uuid.UUID
	CheckpointID uuid.UUID
}

type DnfRecord struct {
	ID           uuid.UUID
	RacerID      uuid.UUID
	CheckpointID uuid.NullUUID
	Reason       string
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
}

type Event struct {
	ID                 uuid.UUID
	AdminID            uuid.UUID
	Slug               string
	Name               string
	RaceDate           time.Time
	RegistrationOpens  sql.NullTime
	RegistrationCloses sql.NullTime
	Published          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Penalty struct {
	ID        uuid.UUID
	RacerID   uuid.UUID
	Seconds   int32
	Reason    string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

type RaceOutbox struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	Entity    string
	CreatedAt time.Time
	SentAt    sql.NullTime
}

type Racer struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	Name      string
	Team      sql.NullString
	CreatedAt time.Time
}

type RacerClass struct {
	ID         uuid.UUID
	RacerID    uuid.UUID
	ClassID    uuid.UUID
	RaceNumber int32
	Confirmed  bool
	CreatedAt  time.Time
}

type Timestamp struct {
	ID           uuid.UUID
	CheckpointID uuid.UUID
	RacerID      uuid.UUID
	RecordedAt   time.Time
	RecordedBy   uuid.NullUUID
	CreatedAt    time.Time
}
