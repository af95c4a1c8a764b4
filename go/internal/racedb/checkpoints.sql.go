package racedb

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const getCheckpoint = `-- name: GetCheckpoint :one
SELECT id, event_id, name, sort_order, access_code, code_expires_at, created_at
FROM checkpoints
WHERE id = $1
`

func (q *Queries) GetCheckpoint(ctx context.Context, id uuid.UUID) (Checkpoint, error) {
	row := q.db.QueryRowContext(ctx, getCheckpoint, id)
	var i Checkpoint
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Name,
		&i.SortOrder,
		&i.AccessCode,
		&i.CodeExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const getLiveCheckpointByCode = `-- name: GetLiveCheckpointByCode :one
SELECT c.id AS checkpoint_id, c.name AS checkpoint_name, e.id AS event_id, e.name AS event_name
FROM checkpoints c
JOIN events e ON e.id = c.event_id
WHERE c.access_code = $1
  AND c.code_expires_at > $2
ORDER BY c.code_expires_at DESC
LIMIT 1
`

type GetLiveCheckpointByCodeParams struct {
	AccessCode string
	Now        time.Time
}

type GetLiveCheckpointByCodeRow struct {
	CheckpointID   uuid.UUID
	CheckpointName string
	EventID        uuid.UUID
	EventName      string
}

func (q *Queries) GetLiveCheckpointByCode(ctx context.Context, arg GetLiveCheckpointByCodeParams) (GetLiveCheckpointByCodeRow, error) {
	row := q.db.QueryRowContext(ctx, getLiveCheckpointByCode, arg.AccessCode, arg.Now)
	var i GetLiveCheckpointByCodeRow
	err := row.Scan(
		&i.CheckpointID,
		&i.CheckpointName,
		&i.EventID,
		&i.EventName,
	)
	return i, err
}

const countLiveCodeHolders = `-- name: CountLiveCodeHolders :one
SELECT count(*)
FROM checkpoints
WHERE access_code = $1
  AND code_expires_at > $2
  AND id <> $3
`

type CountLiveCodeHoldersParams struct {
	AccessCode string
	Now        time.Time
	ExcludeID  uuid.UUID
}

func (q *Queries) CountLiveCodeHolders(ctx context.Context, arg CountLiveCodeHoldersParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLiveCodeHolders, arg.AccessCode, arg.Now, arg.ExcludeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const lockAccessCode = `-- name: LockAccessCode :exec
SELECT pg_advisory_xact_lock(hashtext($1))
`

func (q *Queries) LockAccessCode(ctx context.Context, accessCode string) error {
	_, err := q.db.ExecContext(ctx, lockAccessCode, accessCode)
	return err
}

const updateCheckpointCode = `-- name: UpdateCheckpointCode :one
UPDATE checkpoints
SET access_code = $2, code_expires_at = $3
WHERE id = $1
RETURNING id, event_id, name, sort_order, access_code, code_expires_at, created_at
`

type UpdateCheckpointCodeParams struct {
	ID            uuid.UUID
	AccessCode    string
	CodeExpiresAt time.Time
}

func (q *Queries) UpdateCheckpointCode(ctx context.Context, arg UpdateCheckpointCodeParams) (Checkpoint, error) {
	row := q.db.QueryRowContext(ctx, updateCheckpointCode, arg.ID, arg.AccessCode, arg.CodeExpiresAt)
	var i Checkpoint
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Name,
		&i.SortOrder,
		&i.AccessCode,
		&i.CodeExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const listCheckpointsByEvent = `-- name: ListCheckpointsByEvent :many
SELECT id, event_id, name, sort_order, access_code, code_expires_at, created_at
FROM checkpoints
WHERE event_id = $1
ORDER BY sort_order ASC, created_at ASC
`

func (q *Queries) ListCheckpointsByEvent(ctx context.Context, eventID uuid.UUID) ([]Checkpoint, error) {
	rows, err := q.db.QueryContext(ctx, listCheckpointsByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Checkpoint
	for rows.Next() {
		var i Checkpoint
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Name,
			&i.SortOrder,
			&i.AccessCode,
			&i.CodeExpiresAt,
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
