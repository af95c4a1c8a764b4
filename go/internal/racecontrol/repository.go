package racecontrol

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/sqlutil"
	"github.com/samber/lo"
)

const outboxEntity = "class_checkpoints"

// Querier defines the single-row lookups the repository performs
type Querier interface {
	GetEvent(ctx context.Context, id uuid.UUID) (racedb.Event, error)
	GetRacer(ctx context.Context, id uuid.UUID) (racedb.Racer, error)
	GetClass(ctx context.Context, id uuid.UUID) (racedb.Class, error)
}

// Repository implements race-control data access
type Repository struct {
	queries Querier
	db      sqlutil.TxStarter
}

// NewRepository creates a new race-control repository
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

// GetRacer retrieves a racer by ID
func (r *Repository) GetRacer(ctx context.Context, id uuid.UUID) (*models.Racer, error) {
	racer, err := r.queries.GetRacer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("racer")
		}
		return nil, fmt.Errorf("failed to get racer: %w", err)
	}
	m := racer.ToModel()
	return &m, nil
}

// GetClass retrieves a class by ID
func (r *Repository) GetClass(ctx context.Context, id uuid.UUID) (*models.RaceClass, error) {
	class, err := r.queries.GetClass(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("class")
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	m := class.ToModel()
	return &m, nil
}

// LoadSnapshot reads the event's race-control lists from one snapshot.
func (r *Repository) LoadSnapshot(ctx context.Context, event *models.Event) (*Snapshot, error) {
	snap := &Snapshot{Event: event}
	err := sqlutil.RunSnapshot(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		classes, err := q.ListClassesByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list classes: %w", err)
		}
		snap.Classes = lo.Map(classes, func(c racedb.Class, _ int) models.RaceClass { return c.ToModel() })

		checkpoints, err := q.ListCheckpointsByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list checkpoints: %w", err)
		}
		snap.Checkpoints = lo.Map(checkpoints, func(c racedb.Checkpoint, _ int) models.Checkpoint { return c.ToModel() })

		racers, err := q.ListRacersByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list racers: %w", err)
		}
		entries, err := q.ListEntriesByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		byRacer := lo.GroupBy(entries, func(e racedb.ListEntriesByEventRow) uuid.UUID { return e.RacerID })
		snap.Racers = lo.Map(racers, func(rc racedb.Racer, _ int) models.Racer {
			m := rc.ToModel()
			m.Entries = lo.Map(byRacer[rc.ID], func(e racedb.ListEntriesByEventRow, _ int) models.RacerEntry {
				return models.RacerEntry{
					ID:         e.ID,
					RacerID:    e.RacerID,
					ClassID:    e.ClassID,
					ClassName:  e.ClassName,
					RaceNumber: int(e.RaceNumber),
					Confirmed:  e.Confirmed,
					CreatedAt:  e.CreatedAt,
				}
			})
			return m
		})

		timestamps, err := q.ListTimestampsByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list timestamps: %w", err)
		}
		snap.Timestamps = lo.Map(timestamps, func(t racedb.Timestamp, _ int) models.Timestamp { return t.ToModel() })

		penalties, err := q.ListPenaltiesByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list penalties: %w", err)
		}
		snap.Penalties = lo.Map(penalties, func(p racedb.Penalty, _ int) models.Penalty { return p.ToModel() })

		dnfs, err := q.ListDnfRecordsByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to list dnf records: %w", err)
		}
		snap.DnfRecords = lo.Map(dnfs, func(d racedb.DnfRecord, _ int) models.DnfRecord { return d.ToModel() })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadRacerHistory reads a racer's passages in checkpoint order and the
// audit entries that target the racer or any of its timestamps.
func (r *Repository) LoadRacerHistory(ctx context.Context, racer *models.Racer) (*RacerHistory, error) {
	history := &RacerHistory{Racer: racer}
	err := sqlutil.RunSnapshot(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		passages, err := q.ListPassagesByRacer(ctx, racer.ID)
		if err != nil {
			return fmt.Errorf("failed to list passages: %w", err)
		}
		history.Passages = lo.Map(passages, func(p racedb.ListPassagesByRacerRow, _ int) models.CheckpointPassage {
			return models.CheckpointPassage{
				Timestamp: models.Timestamp{
					ID:           p.ID,
					CheckpointID: p.CheckpointID,
					RacerID:      p.RacerID,
					RecordedAt:   p.RecordedAt,
					RecordedBy:   sqlutil.FromNullUUID(p.RecordedBy),
					CreatedAt:    p.CreatedAt,
				},
				CheckpointName: p.CheckpointName,
				SortOrder:      int(p.SortOrder),
			}
		})

		targets := append([]uuid.UUID{racer.ID}, lo.Map(passages, func(p racedb.ListPassagesByRacerRow, _ int) uuid.UUID { return p.ID })...)
		for _, target := range targets {
			logs, err := q.ListAuditLogsByTarget(ctx, target)
			if err != nil {
				return fmt.Errorf("failed to list audit logs: %w", err)
			}
			for _, l := range logs {
				history.AuditLogs = append(history.AuditLogs, l.ToModel())
			}
		}
		sort.SliceStable(history.AuditLogs, func(i, j int) bool {
			return history.AuditLogs[i].CreatedAt.After(history.AuditLogs[j].CreatedAt)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// ListCheckpoints returns the event's checkpoints in sort order
func (r *Repository) ListCheckpoints(ctx context.Context, eventID uuid.UUID) ([]models.Checkpoint, error) {
	var out []models.Checkpoint
	err := sqlutil.RunSnapshot(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		checkpoints, err := q.ListCheckpointsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list checkpoints: %w", err)
		}
		out = lo.Map(checkpoints, func(c racedb.Checkpoint, _ int) models.Checkpoint { return c.ToModel() })
		return nil
	})
	return out, err
}

// GetClassCheckpoints returns the event's class to checkpoint mapping
func (r *Repository) GetClassCheckpoints(ctx context.Context, eventID uuid.UUID) (ClassCheckpoints, error) {
	out := ClassCheckpoints{}
	err := sqlutil.RunSnapshot(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		rows, err := q.ListClassCheckpointsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list class checkpoints: %w", err)
		}
		for _, row := range rows {
			out[row.ClassID] = append(out[row.ClassID], row.CheckpointID)
		}
		return nil
	})
	return out, err
}

// ReplaceClassCheckpoints swaps a class's mapping in one transaction. An
// empty list clears the mapping.
func (r *Repository) ReplaceClassCheckpoints(ctx context.Context, class *models.RaceClass, checkpointIDs []uuid.UUID) error {
	return sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		if err := q.DeleteClassCheckpoints(ctx, class.ID); err != nil {
			return fmt.Errorf("failed to clear class checkpoints: %w", err)
		}
		for _, id := range checkpointIDs {
			if err := q.InsertClassCheckpoint(ctx, racedb.InsertClassCheckpointParams{
				ClassID:      class.ID,
				CheckpointID: id,
			}); err != nil {
				return fmt.Errorf("failed to insert class checkpoint: %w", err)
			}
		}
		if err := q.InsertOutbox(ctx, racedb.InsertOutboxParams{
			ID:      uuid.New(),
			EventID: class.EventID,
			Entity:  outboxEntity,
		}); err != nil {
			return fmt.Errorf("failed to insert outbox row: %w", err)
		}
		return nil
	})
}
