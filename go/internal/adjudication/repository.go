package adjudication

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

const uniqueDnfPerRacer = "dnf_records_racer_key"

// Querier defines the reads the repository performs outside a transaction
type Querier interface {
	GetEvent(ctx context.Context, id uuid.UUID) (racedb.Event, error)
	GetRacer(ctx context.Context, id uuid.UUID) (racedb.Racer, error)
	GetCheckpoint(ctx context.Context, id uuid.UUID) (racedb.Checkpoint, error)
	GetTimestampWithEvent(ctx context.Context, id uuid.UUID) (racedb.GetTimestampWithEventRow, error)
	ListAuditLogsByEvent(ctx context.Context, eventID uuid.UUID) ([]racedb.AuditLog, error)
}

// Repository implements ledger data access. Every write commits together
// with its audit entry and an outbox row, or not at all.
type Repository struct {
	queries Querier
	db      sqlutil.TxStarter
}

// NewRepository creates a new adjudication repository
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

// ListAudit returns an event's audit entries, newest first
func (r *Repository) ListAudit(ctx context.Context, eventID uuid.UUID) ([]models.AuditLogEntry, error) {
	rows, err := r.queries.ListAuditLogsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	entries := make([]models.AuditLogEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToModel()
	}
	return entries, nil
}

// AddPenalty appends a penalty with its audit entry
func (r *Repository) AddPenalty(ctx context.Context, p models.Penalty, audit AuditRecord) (*models.Penalty, error) {
	var created racedb.Penalty
	err := sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		var err error
		created, err = q.InsertPenalty(ctx, racedb.InsertPenaltyParams{
			ID:        p.ID,
			RacerID:   p.RacerID,
			Seconds:   int32(p.Seconds),
			Reason:    p.Reason,
			CreatedBy: p.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("failed to insert penalty: %w", err)
		}
		return appendLedger(ctx, q, audit, "penalties")
	})
	if err != nil {
		return nil, err
	}
	m := created.ToModel()
	return &m, nil
}

// MarkDnf appends the racer's DNF record with its audit entry. A second
// declaration for the same racer is a conflict.
func (r *Repository) MarkDnf(ctx context.Context, d models.DnfRecord, audit AuditRecord) (*models.DnfRecord, error) {
	var created racedb.DnfRecord
	err := sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		var err error
		created, err = q.InsertDnfRecord(ctx, racedb.InsertDnfRecordParams{
			ID:           d.ID,
			RacerID:      d.RacerID,
			CheckpointID: sqlutil.ToNullUUID(d.CheckpointID),
			Reason:       d.Reason,
			CreatedBy:    d.CreatedBy,
		})
		if err != nil {
			if sqlutil.IsUniqueViolation(err, uniqueDnfPerRacer) {
				return apperr.Conflict("racer is already marked DNF")
			}
			return fmt.Errorf("failed to insert dnf record: %w", err)
		}
		return appendLedger(ctx, q, audit, "dnf_records")
	})
	if err != nil {
		return nil, err
	}
	m := created.ToModel()
	return &m, nil
}

// EditTimestamp moves recorded_at from previous to recordedAt. If the row
// changed since previous was read the edit is refused as a conflict, so the
// audit's old value is always what was overwritten.
func (r *Repository) EditTimestamp(ctx context.Context, id uuid.UUID, previous, recordedAt time.Time, audit AuditRecord) (*models.Timestamp, error) {
	var updated racedb.Timestamp
	err := sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		var err error
		updated, err = q.UpdateTimestampRecordedAt(ctx, racedb.UpdateTimestampRecordedAtParams{
			ID:                 id,
			RecordedAt:         recordedAt,
			PreviousRecordedAt: previous,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.Conflict("timestamp changed or was removed concurrently")
			}
			return fmt.Errorf("failed to update timestamp: %w", err)
		}
		return appendLedger(ctx, q, audit, "timestamps")
	})
	if err != nil {
		return nil, err
	}
	m := updated.ToModel()
	return &m, nil
}

func appendLedger(ctx context.Context, q *racedb.Queries, audit AuditRecord, entity string) error {
	oldValue, err := sqlutil.ToNullRawMessage(audit.OldValue)
	if err != nil {
		return fmt.Errorf("failed to encode audit old value: %w", err)
	}
	newValue, err := sqlutil.ToNullRawMessage(audit.NewValue)
	if err != nil {
		return fmt.Errorf("failed to encode audit new value: %w", err)
	}

	if _, err := q.InsertAuditLog(ctx, racedb.InsertAuditLogParams{
		ID:         uuid.New(),
		EventID:    audit.EventID,
		AdminID:    audit.AdminID,
		Action:     string(audit.Action),
		TargetType: string(audit.TargetType),
		TargetID:   audit.TargetID,
		OldValue:   oldValue,
		NewValue:   newValue,
		Reason:     sqlutil.ToSqlString(&audit.Reason),
	}); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	if err := q.InsertOutbox(ctx, racedb.InsertOutboxParams{
		ID:      uuid.New(),
		EventID: audit.EventID,
		Entity:  entity,
	}); err != nil {
		return fmt.Errorf("failed to insert outbox row: %w", err)
	}
	return nil
}
