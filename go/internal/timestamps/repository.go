package timestamps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/sqlutil"
)

const (
	outboxEntity = "timestamps"

	uniqueRacerCheckpoint = "timestamps_racer_checkpoint_key"
)

var (
	// ErrAlreadyRecorded is returned by Insert when the (racer, checkpoint)
	// pair already has a passage.
	ErrAlreadyRecorded = errors.New("timestamp already recorded")
	// ErrNothingDeleted is returned by DeleteCreatedAfter when the row is gone
	// or older than the cutoff.
	ErrNothingDeleted = errors.New("no timestamp deleted")
)

// Querier defines the reads the repository performs outside a transaction
type Querier interface {
	GetCheckpoint(ctx context.Context, id uuid.UUID) (racedb.Checkpoint, error)
	FindRacersByNumber(ctx context.Context, arg racedb.FindRacersByNumberParams) ([]racedb.FindRacersByNumberRow, error)
	GetTimestampWithEvent(ctx context.Context, id uuid.UUID) (racedb.GetTimestampWithEventRow, error)
}

// Repository implements timestamp data access. Writes go through a
// transaction that also appends to the race outbox.
type Repository struct {
	queries Querier
	db      sqlutil.TxStarter
}

// NewRepository creates a new timestamp repository
func NewRepository(queries Querier, db sqlutil.TxStarter) *Repository {
	return &Repository{
		queries: queries,
		db:      db,
	}
}

// GetCheckpoint retrieves a checkpoint by ID
func (r *Repository) GetCheckpoint(ctx context.Context, id uuid.UUID) (*models.Checkpoint, error) {
	cp, err := r.queries.GetCheckpoint(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("checkpoint")
		}
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	m := cp.ToModel()
	return &m, nil
}

// FindRacersByNumber returns the distinct racers of an event holding number in any class.
func (r *Repository) FindRacersByNumber(ctx context.Context, eventID uuid.UUID, number int) ([]RacerMatch, error) {
	rows, err := r.queries.FindRacersByNumber(ctx, racedb.FindRacersByNumberParams{
		EventID:    eventID,
		RaceNumber: int32(number),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find racers by number: %w", err)
	}
	matches := make([]RacerMatch, len(rows))
	for i, row := range rows {
		matches[i] = RacerMatch{RacerID: row.RacerID, RacerName: row.RacerName}
	}
	return matches, nil
}

// Insert writes the passage and its outbox row atomically. The storage
// uniqueness constraint decides between concurrent punches.
func (r *Repository) Insert(ctx context.Context, eventID uuid.UUID, ts models.Timestamp) (*models.Timestamp, error) {
	var inserted racedb.Timestamp
	err := sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		var err error
		inserted, err = q.InsertTimestamp(ctx, racedb.InsertTimestampParams{
			ID:           ts.ID,
			CheckpointID: ts.CheckpointID,
			RacerID:      ts.RacerID,
			RecordedAt:   ts.RecordedAt,
			RecordedBy:   sqlutil.ToNullUUID(ts.RecordedBy),
			CreatedAt:    ts.CreatedAt,
		})
		if err != nil {
			if sqlutil.IsUniqueViolation(err, uniqueRacerCheckpoint) {
				return ErrAlreadyRecorded
			}
			return fmt.Errorf("failed to insert timestamp: %w", err)
		}
		return insertOutbox(ctx, q, eventID)
	})
	if err != nil {
		return nil, err
	}
	m := inserted.ToModel()
	return &m, nil
}

// GetTimestamp retrieves a timestamp and the event it belongs to
func (r *Repository) GetTimestamp(ctx context.Context, id uuid.UUID) (*models.Timestamp, uuid.UUID, error) {
	row, err := r.queries.GetTimestampWithEvent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, uuid.Nil, apperr.NotFound("timestamp")
		}
		return nil, uuid.Nil, fmt.Errorf("failed to get timestamp: %w", err)
	}
	return &models.Timestamp{
		ID:           row.ID,
		CheckpointID: row.CheckpointID,
		RacerID:      row.RacerID,
		RecordedAt:   row.RecordedAt,
		RecordedBy:   sqlutil.FromNullUUID(row.RecordedBy),
		CreatedAt:    row.CreatedAt,
	}, row.EventID, nil
}

// DeleteCreatedAfter removes the timestamp only if it was created after
// cutoff, re-checking the undo window inside the statement itself.
func (r *Repository) DeleteCreatedAfter(ctx context.Context, eventID, id uuid.UUID, cutoff time.Time) error {
	return sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		n, err := q.DeleteTimestampCreatedAfter(ctx, racedb.DeleteTimestampCreatedAfterParams{
			ID:        id,
			NotBefore: cutoff,
		})
		if err != nil {
			return fmt.Errorf("failed to delete timestamp: %w", err)
		}
		if n == 0 {
			return ErrNothingDeleted
		}
		return insertOutbox(ctx, q, eventID)
	})
}

func insertOutbox(ctx context.Context, q *racedb.Queries, eventID uuid.UUID) error {
	if err := q.InsertOutbox(ctx, racedb.InsertOutboxParams{
		ID:      uuid.New(),
		EventID: eventID,
		Entity:  outboxEntity,
	}); err != nil {
		return fmt.Errorf("failed to insert outbox row: %w", err)
	}
	return nil
}
