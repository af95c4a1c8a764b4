package adjudication

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/rs/zerolog/log"
)

// LedgerRepository defines what the app layer needs from the repository
type LedgerRepository interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetRacer(ctx context.Context, id uuid.UUID) (*models.Racer, error)
	GetCheckpoint(ctx context.Context, id uuid.UUID) (*models.Checkpoint, error)
	GetTimestamp(ctx context.Context, id uuid.UUID) (*models.Timestamp, uuid.UUID, error)
	ListAudit(ctx context.Context, eventID uuid.UUID) ([]models.AuditLogEntry, error)
	AddPenalty(ctx context.Context, p models.Penalty, audit AuditRecord) (*models.Penalty, error)
	MarkDnf(ctx context.Context, d models.DnfRecord, audit AuditRecord) (*models.DnfRecord, error)
	EditTimestamp(ctx context.Context, id uuid.UUID, previous, recordedAt time.Time, audit AuditRecord) (*models.Timestamp, error)
}

// App applies organizer adjudication: penalties, DNF declarations and
// timestamp corrections. Each action leaves an audit entry.
type App struct {
	repo  LedgerRepository
	clock clockwork.Clock
}

// NewApp creates a new adjudication App
func NewApp(repo LedgerRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// AddPenalty adds req.Seconds to a racer's final time.
func (a *App) AddPenalty(ctx context.Context, actor uuid.UUID, req AddPenaltyRequest) (*models.Penalty, error) {
	reason := strings.TrimSpace(req.Reason)
	if req.Seconds < 1 {
		return nil, apperr.Validation("penalty seconds must be at least 1")
	}
	if reason == "" {
		return nil, apperr.Validation("a reason is required")
	}

	racer, err := a.ownedRacer(ctx, actor, req.RacerID)
	if err != nil {
		return nil, err
	}

	penalty, err := a.repo.AddPenalty(ctx, models.Penalty{
		ID:        uuid.New(),
		RacerID:   racer.ID,
		Seconds:   req.Seconds,
		Reason:    reason,
		CreatedBy: actor,
	}, AuditRecord{
		EventID:    racer.EventID,
		AdminID:    actor,
		Action:     models.AuditActionAddPenalty,
		TargetType: models.AuditTargetRacer,
		TargetID:   racer.ID,
		NewValue:   penaltyValue{Seconds: req.Seconds, Reason: reason},
		Reason:     reason,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", racer.EventID.String()).
		Str("racer_id", racer.ID.String()).
		Int("seconds", req.Seconds).
		Msg("penalty added")
	return penalty, nil
}

// MarkDnf declares a racer did-not-finish, optionally at a checkpoint.
func (a *App) MarkDnf(ctx context.Context, actor uuid.UUID, req MarkDnfRequest) (*models.DnfRecord, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperr.Validation("a reason is required")
	}

	racer, err := a.ownedRacer(ctx, actor, req.RacerID)
	if err != nil {
		return nil, err
	}

	if req.CheckpointID != nil {
		cp, err := a.repo.GetCheckpoint(ctx, *req.CheckpointID)
		if err != nil {
			return nil, err
		}
		if cp.EventID != racer.EventID {
			return nil, apperr.Validation("checkpoint belongs to a different event")
		}
	}

	dnf, err := a.repo.MarkDnf(ctx, models.DnfRecord{
		ID:           uuid.New(),
		RacerID:      racer.ID,
		CheckpointID: req.CheckpointID,
		Reason:       reason,
		CreatedBy:    actor,
	}, AuditRecord{
		EventID:    racer.EventID,
		AdminID:    actor,
		Action:     models.AuditActionMarkDnf,
		TargetType: models.AuditTargetRacer,
		TargetID:   racer.ID,
		NewValue:   dnfValue{Reason: reason, CheckpointID: req.CheckpointID},
		Reason:     reason,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", racer.EventID.String()).
		Str("racer_id", racer.ID.String()).
		Msg("racer marked dnf")
	return dnf, nil
}

// EditTimestamp corrects a passage time after the undo window has closed.
func (a *App) EditTimestamp(ctx context.Context, actor uuid.UUID, req EditTimestampRequest) (*models.Timestamp, error) {
	reason := strings.TrimSpace(req.Reason)
	if req.RecordedAt.IsZero() {
		return nil, apperr.Validation("recorded_at is required")
	}
	if reason == "" {
		return nil, apperr.Validation("a reason is required")
	}
	if req.RecordedAt.After(a.clock.Now().Add(time.Minute)) {
		return nil, apperr.Validation("recorded_at cannot be in the future")
	}

	// Postgres keeps microseconds; the audit must match the stored value.
	recordedAt := req.RecordedAt.Truncate(time.Microsecond)

	ts, eventID, err := a.repo.GetTimestamp(ctx, req.TimestampID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}

	updated, err := a.repo.EditTimestamp(ctx, ts.ID, ts.RecordedAt, recordedAt, AuditRecord{
		EventID:    eventID,
		AdminID:    actor,
		Action:     models.AuditActionEditTimestamp,
		TargetType: models.AuditTargetTimestamp,
		TargetID:   ts.ID,
		OldValue:   recordedAtValue{RecordedAt: ts.RecordedAt},
		NewValue:   recordedAtValue{RecordedAt: recordedAt},
		Reason:     reason,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("timestamp_id", ts.ID.String()).
		Time("old_recorded_at", ts.RecordedAt).
		Time("new_recorded_at", recordedAt).
		Msg("timestamp edited")
	return updated, nil
}

// ListAudit returns the event's audit trail, newest first.
func (a *App) ListAudit(ctx context.Context, actor uuid.UUID, eventID uuid.UUID) ([]models.AuditLogEntry, error) {
	if _, err := a.ownedEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}
	return a.repo.ListAudit(ctx, eventID)
}

func (a *App) ownedRacer(ctx context.Context, actor, racerID uuid.UUID) (*models.Racer, error) {
	racer, err := a.repo.GetRacer(ctx, racerID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedEvent(ctx, actor, racer.EventID); err != nil {
		return nil, err
	}
	return racer, nil
}

func (a *App) ownedEvent(ctx context.Context, actor, eventID uuid.UUID) (*models.Event, error) {
	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.OwnedBy(actor) {
		return nil, apperr.Forbidden("event belongs to another organizer")
	}
	return event, nil
}
