package racedb

import (
	"context"

	"github.com/google/uuid"
)

const insertOutbox = `-- name: InsertOutbox :exec
INSERT INTO race_outbox (id, event_id, entity)
VALUES ($1, $2, $3)
`

type InsertOutboxParams struct {
	ID      uuid.UUID
	EventID uuid.UUID
	Entity  string
}

func (q *Queries) InsertOutbox(ctx context.Context, arg InsertOutboxParams) error {
	_, err := q.db.ExecContext(ctx, insertOutbox, arg.ID, arg.EventID, arg.Entity)
	return err
}

const fetchOutboxByID = `-- name: FetchOutboxByID :one
SELECT id, event_id, entity, created_at, sent_at
FROM race_outbox
WHERE id = $1
  AND sent_at IS NULL
`

func (q *Queries) FetchOutboxByID(ctx context.Context, id uuid.UUID) (RaceOutbox, error) {
	row := q.db.QueryRowContext(ctx, fetchOutboxByID, id)
	var i RaceOutbox
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Entity,
		&i.CreatedAt,
		&i.SentAt,
	)
	return i, err
}

const fetchUnsentOutbox = `-- name: FetchUnsentOutbox :many
SELECT id, event_id, entity, created_at, sent_at
FROM race_outbox
WHERE sent_at IS NULL
ORDER BY created_at ASC
LIMIT $1
`

func (q *Queries) FetchUnsentOutbox(ctx context.Context, limit int32) ([]RaceOutbox, error) {
	rows, err := q.db.QueryContext(ctx, fetchUnsentOutbox, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RaceOutbox
	for rows.Next() {
		var i RaceOutbox
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Entity,
			&i.CreatedAt,
			&i.SentAt,
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

const markOutboxSent = `-- name: MarkOutboxSent :exec
UPDATE race_outbox
SET sent_at = now()
WHERE id = $1
`

func (q *Queries) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, markOutboxSent, id)
	return err
}

const countUnsentOutbox = `-- name: CountUnsentOutbox :one
SELECT count(*)
FROM race_outbox
WHERE sent_at IS NULL
`

func (q *Queries) CountUnsentOutbox(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUnsentOutbox)
	var count int64
	err := row.Scan(&count)
	return count, err
}
