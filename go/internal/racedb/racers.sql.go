package racedb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const getRacer = `-- name: GetRacer :one
SELECT id, event_id, name, team, created_at
FROM racers
WHERE id = $1
`

func (q *Queries) GetRacer(ctx context.Context, id uuid.UUID) (Racer, error) {
	row := q.db.QueryRowContext(ctx, getRacer, id)
	var i Racer
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Name,
		&i.Team,
		&i.CreatedAt,
	)
	return i, err
}

const listRacersByEvent = `-- name: ListRacersByEvent :many
SELECT id, event_id, name, team, created_at
FROM racers
WHERE event_id = $1
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListRacersByEvent(ctx context.Context, eventID uuid.UUID) ([]Racer, error) {
	rows, err := q.db.QueryContext(ctx, listRacersByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Racer
	for rows.Next() {
		var i Racer
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Name,
			&i.Team,
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

const findRacersByNumber = `-- name: FindRacersByNumber :many
SELECT DISTINCT r.id AS racer_id, r.name AS racer_name
FROM racer_classes rc
JOIN racers r ON r.id = rc.racer_id
WHERE r.event_id = $1
  AND rc.race_number = $2
`

type FindRacersByNumberParams struct {
	EventID    uuid.UUID
	RaceNumber int32
}

type FindRacersByNumberRow struct {
	RacerID   uuid.UUID
	RacerName string
}

func (q *Queries) FindRacersByNumber(ctx context.Context, arg FindRacersByNumberParams) ([]FindRacersByNumberRow, error) {
	rows, err := q.db.QueryContext(ctx, findRacersByNumber, arg.EventID, arg.RaceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FindRacersByNumberRow
	for rows.Next() {
		var i FindRacersByNumberRow
		if err := rows.Scan(&i.RacerID, &i.RacerName); err != nil {
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

const listEntriesByEvent = `-- name: ListEntriesByEvent :many
SELECT rc.id, rc.racer_id, rc.class_id, c.name AS class_name, rc.race_number, rc.confirmed, rc.created_at,
       r.name AS racer_name, r.team
FROM racer_classes rc
JOIN racers r ON r.id = rc.racer_id
JOIN classes c ON c.id = rc.class_id
WHERE r.event_id = $1
ORDER BY rc.created_at ASC, rc.id ASC
`

type ListEntriesByEventRow struct {
	ID         uuid.UUID
	RacerID    uuid.UUID
	ClassID    uuid.UUID
	ClassName  string
	RaceNumber int32
	Confirmed  bool
	CreatedAt  time.Time
	RacerName  string
	Team       sql.NullString
}

func (q *Queries) ListEntriesByEvent(ctx context.Context, eventID uuid.UUID) ([]ListEntriesByEventRow, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListEntriesByEventRow
	for rows.Next() {
		var i ListEntriesByEventRow
		if err := rows.Scan(
			&i.ID,
			&i.RacerID,
			&i.ClassID,
			&i.ClassName,
			&i.RaceNumber,
			&i.Confirmed,
			&i.CreatedAt,
			&i.RacerName,
			&i.Team,
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
