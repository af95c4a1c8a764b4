package timestamps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultUndoWindow is how long after creation a punch may be taken back.
const DefaultUndoWindow = 5 * time.Second

// TimestampRepository defines what the app layer needs from the repository
type TimestampRepository interface {
	GetCheckpoint(ctx context.Context, id uuid.UUID) (*models.Checkpoint, error)
	FindRacersByNumber(ctx context.Context, eventID uuid.UUID, number int) ([]RacerMatch, error)
	Insert(ctx context.Context, eventID uuid.UUID, ts models.Timestamp) (*models.Timestamp, error)
	GetTimestamp(ctx context.Context, id uuid.UUID) (*models.Timestamp, uuid.UUID, error)
	DeleteCreatedAfter(ctx context.Context, eventID, id uuid.UUID, cutoff time.Time) error
}

// App records checkpoint passages
type App struct {
	repo       TimestampRepository
	clock      clockwork.Clock
	undoWindow time.Duration
}

// NewApp creates a new timestamp App. A non-positive undoWindow falls back
// to DefaultUndoWindow.
func NewApp(repo TimestampRepository, clock clockwork.Clock, undoWindow time.Duration) *App {
	if undoWindow <= 0 {
		undoWindow = DefaultUndoWindow
	}
	return &App{
		repo:       repo,
		clock:      clock,
		undoWindow: undoWindow,
	}
}

// Record stores one passage for the racer wearing req.RacerNumber. The time
// is taken from the server clock. A repeat punch yields OutcomeDuplicate.
func (a *App) Record(ctx context.Context, req RecordRequest) (*Outcome, error) {
	if req.CheckpointID == uuid.Nil {
		return nil, apperr.Validation("checkpoint_id is required")
	}
	if req.RacerNumber < 1 {
		return nil, apperr.Validation("racer number must be a positive integer")
	}

	cp, err := a.repo.GetCheckpoint(ctx, req.CheckpointID)
	if err != nil {
		return nil, err
	}
	if !cp.CodeLive(a.clock.Now()) {
		return nil, fmt.Errorf("%w: checkpoint access code has expired", apperr.ErrNotAuthorized)
	}

	racer, err := a.resolveRacer(ctx, cp.EventID, req.RacerNumber)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	ts, err := a.repo.Insert(ctx, cp.EventID, models.Timestamp{
		ID:           uuid.New(),
		CheckpointID: cp.ID,
		RacerID:      racer.RacerID,
		RecordedAt:   now,
		RecordedBy:   req.RecordedBy,
		CreatedAt:    now,
	})
	if errors.Is(err, ErrAlreadyRecorded) {
		log.Debug().
			Str("checkpoint_id", cp.ID.String()).
			Str("racer_id", racer.RacerID.String()).
			Msg("duplicate punch")
		return &Outcome{
			Status:    OutcomeDuplicate,
			RacerID:   racer.RacerID,
			RacerName: racer.RacerName,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", cp.EventID.String()).
		Str("checkpoint_id", cp.ID.String()).
		Str("racer_id", racer.RacerID.String()).
		Int("racer_number", req.RacerNumber).
		Msg("timestamp recorded")

	return &Outcome{
		Status:      OutcomeRecorded,
		TimestampID: &ts.ID,
		RacerID:     racer.RacerID,
		RacerName:   racer.RacerName,
		RecordedAt:  &ts.RecordedAt,
	}, nil
}

func (a *App) resolveRacer(ctx context.Context, eventID uuid.UUID, number int) (*RacerMatch, error) {
	matches, err := a.repo.FindRacersByNumber(ctx, eventID, number)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no racer wears number %d in this event", apperr.ErrRacerNotFound, number)
	case 1:
		return &matches[0], nil
	default:
		return nil, apperr.Validation("ambiguous race number %d: held by %d racers", number, len(matches))
	}
}

// Undo deletes a passage created less than the undo window ago. The window is
// evaluated now, not when the client displayed its undo control.
func (a *App) Undo(ctx context.Context, timestampID uuid.UUID) error {
	if timestampID == uuid.Nil {
		return apperr.Validation("timestamp_id is required")
	}

	ts, eventID, err := a.repo.GetTimestamp(ctx, timestampID)
	if err != nil {
		return err
	}

	now := a.clock.Now()
	if now.Sub(ts.CreatedAt) >= a.undoWindow {
		return fmt.Errorf("%w: recorded %s ago, use an audited edit instead", apperr.ErrUndoExpired, now.Sub(ts.CreatedAt).Truncate(time.Millisecond))
	}

	err = a.repo.DeleteCreatedAfter(ctx, eventID, ts.ID, now.Add(-a.undoWindow))
	if errors.Is(err, ErrNothingDeleted) {
		return fmt.Errorf("%w: timestamp no longer undoable", apperr.ErrUndoExpired)
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("timestamp_id", ts.ID.String()).
		Str("racer_id", ts.RacerID.String()).
		Msg("timestamp undone")
	return nil
}
