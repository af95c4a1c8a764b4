package racedb

import (
	"context"

	"github.com/google/uuid"
)

const insertPenalty = `-- name: InsertPenalty :one
INSERT INTO penalties (id, racer_id, seconds, reason, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, racer_id, seconds, reason, created_by, created_at
`

type InsertPenaltyParams struct {
	ID        uuid.UUID
	RacerID   uuid.UUID
	Seconds   int32
	Reason    string
	CreatedBy uuid.UUID
}

func (q *Queries) InsertPenalty(ctx context.Context, arg InsertPenaltyParams) (Penalty, error) {
	row := q.db.QueryRowContext(ctx, insertPenalty,
		arg.ID,
		arg.RacerID,
		arg.Seconds,
		arg.Reason,
		arg.CreatedBy,
	)
	var i Penalty
	err := row.Scan(
		&i.ID,
		&i.RacerID,
		&i.Seconds,
		&i.Reason,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const listPenaltiesByEvent = `-- name: ListPenaltiesByEvent :many
SELECT p.id, p.racer_id, p.seconds, p.reason, p.created_by, p.created_at
FROM penalties p
JOIN racers r ON r.id = p.racer_id
WHERE r.event_id = $1
ORDER BY p.created_at ASC
`

func (q *Queries) ListPenaltiesByEvent(ctx context.Context, eventID uuid.UUID) ([]Penalty, error) {
	rows, err := q.db.QueryContext(ctx, listPenaltiesByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Penalty
	for rows.Next() {
		var i Penalty
		if err := rows.Scan(
			&i.ID,
			&i.RacerID,
			&i.Seconds,
			&i.Reason,
			&i.CreatedBy,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertDnfRecord = `-- name: InsertDnfRecord :one
INSERT INTO dnf_records (id, racer_id, checkpoint_id, reason, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, racer_id, checkpoint_id, reason, created_by, created_at
`

type InsertDnfRecordParams struct {
	ID           uuid.UUID
	RacerID      uuid.UUID
	CheckpointID uuid.NullUUID
	Reason       string
	CreatedBy    uuid.UUID
}

func (q *Queries) InsertDnfRecord(ctx context.Context, arg InsertDnfRecordParams) (DnfRecord, error) {
	row := q.db.QueryRowContext(ctx, insertDnfRecord,
		arg.ID,
		arg.RacerID,
		arg.CheckpointID,
		arg.Reason,
		arg.CreatedBy,
	)
	var i DnfRecord
	err := row.Scan(
		&i.ID,
		&i.RacerID,
		&i.CheckpointID,
		&i.Reason,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const listDnfRecordsByEvent = `-- name: ListDnfRecordsByEvent :many
SELECT d.id, d.racer_id, d.checkpoint_id, d.reason, d.created_by, d.created_at
FROM dnf_records d
JOIN racers r ON r.id = d.racer_id
WHERE r.event_id = $1
ORDER BY d.created_at ASC
`

func (q *Queries) ListDnfRecordsByEvent(ctx context.Context, eventID uuid.UUID) ([]DnfRecord, error) {
	rows, err := q.db.QueryContext(ctx, listDnfRecordsByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DnfRecord
	for rows.Next() {
		var i DnfRecord
		if err := rows.Scan(
			&i.ID,
			&i.RacerID,
			&i.CheckpointID,
			&i.Reason,
			&i.CreatedBy,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
