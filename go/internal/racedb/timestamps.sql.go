package racedb

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const insertTimestamp = `-- name: InsertTimestamp :one
INSERT INTO timestamps (id, checkpoint_id, racer_id, recorded_at, recorded_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, checkpoint_id, racer_id, recorded_at, recorded_by, created_at
`

type InsertTimestampParams struct {
	ID           uuid.UUID
	CheckpointID uuid.UUID
	RacerID      uuid.UUID
	RecordedAt   time.Time
	RecordedBy   uuid.NullUUID
	CreatedAt    time.Time
}

func (q *Queries) InsertTimestamp(ctx context.Context, arg InsertTimestampParams) (Timestamp, error) {
	row := q.db.QueryRowContext(ctx, insertTimestamp,
		arg.ID,
		arg.CheckpointID,
		arg.RacerID,
		arg.RecordedAt,
		arg.RecordedBy,
		arg.CreatedAt,
	)
	var i Timestamp
	err := row.Scan(
		&i.ID,
		&i.CheckpointID,
		&i.RacerID,
		&i.RecordedAt,
		&i.RecordedBy,
		&i.CreatedAt,
	)
	return i, err
}

const getTimestampWithEvent = `-- name: GetTimestampWithEvent :one
SELECT t.id, t.checkpoint_id, t.racer_id, t.recorded_at, t.recorded_by, t.created_at, c.event_id
FROM timestamps t
JOIN checkpoints c ON c.id = t.checkpoint_id
WHERE t.id = $1
`

type GetTimestampWithEventRow struct {
	ID           uuid.UUID
	CheckpointID uuid.UUID
	RacerID      uuid.UUID
	RecordedAt   time.Time
	RecordedBy   uuid.NullUUID
	CreatedAt    time.Time
	EventID      uuid.UUID
}

func (q *Queries) GetTimestampWithEvent(ctx context.Context, id uuid.UUID) (GetTimestampWithEventRow, error) {
	row := q.db.QueryRowContext(ctx, getTimestampWithEvent, id)
	var i GetTimestampWithEventRow
	err := row.Scan(
		&i.ID,
		&i.CheckpointID,
		&i.RacerID,
		&i.RecordedAt,
		&i.RecordedBy,
		&i.CreatedAt,
		&i.EventID,
	)
	return i, err
}

const deleteTimestampCreatedAfter = `-- name: DeleteTimestampCreatedAfter :execrows
DELETE FROM timestamps
WHERE id = $1
  AND created_at > $2
`

type DeleteTimestampCreatedAfterParams struct {
	ID        uuid.UUID
	NotBefore time.Time
}

func (q *Queries) DeleteTimestampCreatedAfter(ctx context.Context, arg DeleteTimestampCreatedAfterParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTimestampCreatedAfter, arg.ID, arg.NotBefore)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateTimestampRecordedAt = `-- name: UpdateTimestampRecordedAt :one
UPDATE timestamps
SET recorded_at = $2
WHERE id = $1
  AND recorded_at = $3
RETURNING id, checkpoint_id, racer_id, recorded_at, recorded_by, created_at
`

type UpdateTimestampRecordedAtParams struct {
	ID                 uuid.UUID
	RecordedAt         time.Time
	PreviousRecordedAt time.Time
}

func (q *Queries) UpdateTimestampRecordedAt(ctx context.Context, arg UpdateTimestampRecordedAtParams) (Timestamp, error) {
	row := q.db.QueryRowContext(ctx, updateTimestampRecordedAt, arg.ID, arg.RecordedAt, arg.PreviousRecordedAt)
	var i Timestamp
	err := row.Scan(
		&i.ID,
		&i.CheckpointID,
		&i.RacerID,
		&i.RecordedAt,
		&i.RecordedBy,
		&i.CreatedAt,
	)
	return i, err
}

const listTimestampsByEvent = `-- name: ListTimestampsByEvent :many
SELECT t.id, t.checkpoint_id, t.racer_id, t.recorded_at, t.recorded_by, t.created_at
FROM timestamps t
JOIN checkpoints c ON c.id = t.checkpoint_id
WHERE c.event_id = $1
ORDER BY t.recorded_at ASC
`

func (q *Queries) ListTimestampsByEvent(ctx context.Context, eventID uuid.UUID) ([]Timestamp, error) {
	rows, err := q.db.QueryContext(ctx, listTimestampsByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Timestamp
	for rows.Next() {
		var i Timestamp
		if err := rows.Scan(
			&i.ID,
			&i.CheckpointID,
			&i.RacerID,
			&i.RecordedAt,
			&i.RecordedBy,
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

const listPassagesByRacer = `-- name: ListPassagesByRacer :many
SELECT t.id, t.checkpoint_id, t.racer_id, t.recorded_at, t.recorded_by, t.created_at,
       c.name AS checkpoint_name, c.sort_order
FROM timestamps t
JOIN checkpoints c ON c.id = t.checkpoint_id
WHERE t.racer_id = $1
ORDER BY c.sort_order ASC
`

type ListPassagesByRacerRow struct {
	ID             uuid.UUID
	CheckpointID   uuid.UUID
	RacerID        uuid.UUID
	RecordedAt     time.Time
	RecordedBy     uuid.NullUUID
	CreatedAt      time.Time
	CheckpointName string
	SortOrder      int32
}

func (q *Queries) ListPassagesByRacer(ctx context.Context, racerID uuid.UUID) ([]ListPassagesByRacerRow, error) {
	rows, err := q.db.QueryContext(ctx, listPassagesByRacer, racerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPassagesByRacerRow
	for rows.Next() {
		var i ListPassagesByRacerRow
		if err := rows.Scan(
			&i.ID,
			&i.CheckpointID,
			&i.RacerID,
			&i.RecordedAt,
			&i.RecordedBy,
			&i.CreatedAt,
			&i.CheckpointName,
			&i.SortOrder,
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
