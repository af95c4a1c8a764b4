package racedb

import (
	"context"

	"github.com/google/uuid"
)

const getEvent = `-- name: GetEvent :one
SELECT id, admin_id, slug, name, race_date, registration_opens, registration_closes, published, created_at, updated_at
FROM events
WHERE id = $1
`

func (q *Queries) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, id)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.AdminID,
		&i.Slug,
		&i.Name,
		&i.RaceDate,
		&i.RegistrationOpens,
		&i.RegistrationCloses,
		&i.Published,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getEventBySlug = `-- name: GetEventBySlug :one
SELECT id, admin_id, slug, name, race_date, registration_opens, registration_closes, published, created_at, updated_at
FROM events
WHERE slug = $1
`

func (q *Queries) GetEventBySlug(ctx context.Context, slug string) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEventBySlug, slug)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.AdminID,
		&i.Slug,
		&i.Name,
		&i.RaceDate,
		&i.RegistrationOpens,
		&i.RegistrationCloses,
		&i.Published,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
