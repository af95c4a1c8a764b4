package accesscode

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

// ErrCodeTaken is returned by ClaimCode when another checkpoint holds the
// code while it is live.
var ErrCodeTaken = errors.New("access code held by another checkpoint")

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetLiveCheckpointByCode(ctx context.Context, arg racedb.GetLiveCheckpointByCodeParams) (racedb.GetLiveCheckpointByCodeRow, error)
	GetCheckpoint(ctx context.Context, id uuid.UUID) (racedb.Checkpoint, error)
	GetEvent(ctx context.Context, id uuid.UUID) (racedb.Event, error)
	ListCheckpointsByEvent(ctx context.Context, eventID uuid.UUID) ([]racedb.Checkpoint, error)
}

// Repository implements checkpoint code data access
type Repository struct {
	queries Querier
	db      sqlutil.TxStarter
}

// NewRepository creates a new access code repository
func NewRepository(querier Querier, db sqlutil.TxStarter) *Repository {
	return &Repository{
		queries: querier,
		db:      db,
	}
}

// FindLiveCheckpoint returns the checkpoint holding code at now, or apperr.ErrNotFound.
func (r *Repository) FindLiveCheckpoint(ctx context.Context, code string, now time.Time) (*CodeSession, error) {
	row, err := r.queries.GetLiveCheckpointByCode(ctx, racedb.GetLiveCheckpointByCodeParams{
		AccessCode: code,
		Now:        now,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("checkpoint")
		}
		return nil, fmt.Errorf("failed to look up access code: %w", err)
	}
	return &CodeSession{
		CheckpointID:   row.CheckpointID,
		CheckpointName: row.CheckpointName,
		EventID:        row.EventID,
		EventName:      row.EventName,
	}, nil
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

// ClaimCode gives checkpoint id the code and expiry unless another checkpoint
// holds the code live at now. Claims of the same code serialize on an
// advisory lock, so the check and the write cannot interleave.
func (r *Repository) ClaimCode(ctx context.Context, id uuid.UUID, code string, now, expiresAt time.Time) (*models.Checkpoint, error) {
	var claimed racedb.Checkpoint
	err := sqlutil.Run(ctx, r.db, racedb.FromTx, func(q *racedb.Queries) error {
		if err := q.LockAccessCode(ctx, code); err != nil {
			return fmt.Errorf("failed to lock access code: %w", err)
		}
		holders, err := q.CountLiveCodeHolders(ctx, racedb.CountLiveCodeHoldersParams{
			AccessCode: code,
			Now:        now,
			ExcludeID:  id,
		})
		if err != nil {
			return fmt.Errorf("failed to check access code usage: %w", err)
		}
		if holders > 0 {
			return ErrCodeTaken
		}

		claimed, err = q.UpdateCheckpointCode(ctx, racedb.UpdateCheckpointCodeParams{
			ID:            id,
			AccessCode:    code,
			CodeExpiresAt: expiresAt,
		})
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("checkpoint")
		}
		if err != nil {
			return fmt.Errorf("failed to update access code: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m := claimed.ToModel()
	return &m, nil
}

// ListCheckpoints returns an event's checkpoints in traversal order
func (r *Repository) ListCheckpoints(ctx context.Context, eventID uuid.UUID) ([]models.Checkpoint, error) {
	rows, err := r.queries.ListCheckpointsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	out := make([]models.Checkpoint, len(rows))
	for i, row := range rows {
		out[i] = row.ToModel()
	}
	return out, nil
}
