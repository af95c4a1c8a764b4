package ranking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/sqlutil"
)

// RaceData is everything the engine needs for one event, read from a single snapshot.
type RaceData struct {
	Classes          []models.RaceClass
	Checkpoints      []models.Checkpoint
	Entries          []Entry
	Timestamps       []models.Timestamp
	Penalties        []models.Penalty
	Dnfs             []models.DnfRecord
	ClassCheckpoints map[uuid.UUID][]uuid.UUID
}

// Querier defines the event lookups the repository performs
type Querier interface {
	GetEvent(ctx context.Context, id uuid.UUID) (racedb.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (racedb.Event, error)
}

// Repository implements ranking data access
type Repository struct {
	queries Querier
	db      sqlutil.TxStarter
}

// NewRepository creates a new ranking repository
func NewRepository(queries Querier, db sqlutil.TxStarter) *Repository {
	return &Repository{
		queries: queries,
		db:      db,
	}
}

// GetEvent retrieves an event by ID
func (r *Repository) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	ev, err := r.queries.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("event")
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ev.ToModel(), nil
}

// GetEventBySlug retrieves an event by its public slug
func (r *Repository) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	ev, err := r.queries.GetEventBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("event")
		}
		return nil, fmt.Errorf("failed to get event by slug: %w", err)
	}
	return ev.ToModel(), nil
}

// LoadRaceData reads an event's ranking inputs inside one repeatable-read
// transaction so all lists agree with each other.
func (r *Repository) LoadRaceData(ctx context.Context, eventID uuid.UUID) (*RaceData, error) {
	data := &RaceData{ClassCheckpoints: map[uuid.UUID][]uuid.UUID{}}
	err := sqlutil.RunSnapshot(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		classes, err := q.ListClassesByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list classes: %w", err)
		}
		for _, c := range classes {
			data.Classes = append(data.Classes, c.ToModel())
		}

		checkpoints, err := q.ListCheckpointsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list checkpoints: %w", err)
		}
		for _, cp := range checkpoints {
			data.Checkpoints = append(data.Checkpoints, cp.ToModel())
		}

		entries, err := q.ListEntriesByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		for _, e := range entries {
			data.Entries = append(data.Entries, Entry{
				RacerID:    e.RacerID,
				RacerName:  e.RacerName,
				RaceNumber: int(e.RaceNumber),
				Team:       sqlutil.FromSqlStringPtr(e.Team),
				ClassID:    e.ClassID,
				ClassName:  e.ClassName,
			})
		}

		timestamps, err := q.ListTimestampsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list timestamps: %w", err)
		}
		for _, ts := range timestamps {
			data.Timestamps = append(data.Timestamps, ts.ToModel())
		}

		penalties, err := q.ListPenaltiesByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list penalties: %w", err)
		}
		for _, p := range penalties {
			data.Penalties = append(data.Penalties, p.ToModel())
		}

		dnfs, err := q.ListDnfRecordsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list dnf records: %w", err)
		}
		for _, d := range dnfs {
			data.Dnfs = append(data.Dnfs, d.ToModel())
		}

		mapping, err := q.ListClassCheckpointsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list class checkpoints: %w", err)
		}
		for _, m := range mapping {
			data.ClassCheckpoints[m.ClassID] = append(data.ClassCheckpoints[m.ClassID], m.CheckpointID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
