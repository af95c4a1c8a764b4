package racedb

import (
	"context"

	"github.com/google/uuid"
)

const getClass = `-- name: GetClass :one
SELECT id, event_id, name, sort_order, created_at
FROM classes
WHERE id = $1
`

func (q *Queries) GetClass(ctx context.Context, id uuid.UUID) (Class, error) {
	row := q.db.QueryRowContext(ctx, getClass, id)
	var i Class
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Name,
		&i.SortOrder,
		&i.CreatedAt,
	)
	return i, err
}

const listClassesByEvent = `-- name: ListClassesByEvent :many
SELECT id, event_id, name, sort_order, created_at
FROM classes
WHERE event_id = $1
ORDER BY sort_order ASC, created_at ASC
`

func (q *Queries) ListClassesByEvent(ctx context.Context, eventID uuid.UUID) ([]Class, error) {
	rows, err := q.db.QueryContext(ctx, listClassesByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Class
	for rows.Next() {
		var i Class
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Name,
			&i.SortOrder,
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

const listClassCheckpointsByEvent = `-- name: ListClassCheckpointsByEvent :many
SELECT cc.class_id, cc.checkpoint_id
FROM class_checkpoints cc
JOIN classes c ON c.id = cc.class_id
WHERE c.event_id = $1
`

func (q *Queries) ListClassCheckpointsByEvent(ctx context.Context, eventID uuid.UUID) ([]ClassCheckpoint, error) {
	rows, err := q.db.QueryContext(ctx, listClassCheckpointsByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ClassCheckpoint
	for rows.Next() {
		var i ClassCheckpoint
		if err := rows.Scan(&i.ClassID, &i.CheckpointID); err != nil {
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

const deleteClassCheckpoints = `-- name: DeleteClassCheckpoints :exec
DELETE FROM class_checkpoints
WHERE class_id = $1
`

func (q *Queries) DeleteClassCheckpoints(ctx context.Context, classID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteClassCheckpoints, classID)
	return err
}

const insertClassCheckpoint = `-- name: InsertClassCheckpoint :exec
INSERT INTO class_checkpoints (class_id, checkpoint_id)
VALUES ($1, $2)
`

type InsertClassCheckpointParams struct {
	ClassID      uuid.UUID
	CheckpointID uuid.UUID
}

func (q *Queries) InsertClassCheckpoint(ctx context.Context, arg InsertClassCheckpointParams) error {
	_, err := q.db.ExecContext(ctx, insertClassCheckpoint, arg.ClassID, arg.CheckpointID)
	return err
}
