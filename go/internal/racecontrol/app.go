package racecontrol

import (
	"context"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RaceControlRepository defines what the app layer needs from the repository
type RaceControlRepository interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetRacer(ctx context.Context, id uuid.UUID) (*models.Racer, error)
	GetClass(ctx context.Context, id uuid.UUID) (*models.RaceClass, error)
	LoadSnapshot(ctx context.Context, event *models.Event) (*Snapshot, error)
	LoadRacerHistory(ctx context.Context, racer *models.Racer) (*RacerHistory, error)
	ListCheckpoints(ctx context.Context, eventID uuid.UUID) ([]models.Checkpoint, error)
	GetClassCheckpoints(ctx context.Context, eventID uuid.UUID) (ClassCheckpoints, error)
	ReplaceClassCheckpoints(ctx context.Context, class *models.RaceClass, checkpointIDs []uuid.UUID) error
}

// App serves the organizer console. Every operation is limited to the
// event's own organizer.
type App struct {
	repo RaceControlRepository
}

// NewApp creates a new race-control App
func NewApp(repo RaceControlRepository) *App {
	return &App{
		repo: repo,
	}
}

// Snapshot returns everything the race-control screen shows for an event.
func (a *App) Snapshot(ctx context.Context, actor, eventID uuid.UUID) (*Snapshot, error) {
	event, err := a.ownedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	return a.repo.LoadSnapshot(ctx, event)
}

// RacerHistory returns a racer's passages and audit trail.
func (a *App) RacerHistory(ctx context.Context, actor, racerID uuid.UUID) (*RacerHistory, error) {
	racer, err := a.repo.GetRacer(ctx, racerID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedEvent(ctx, actor, racer.EventID); err != nil {
		return nil, err
	}
	return a.repo.LoadRacerHistory(ctx, racer)
}

// GetClassCheckpoints returns the event's class course mapping.
func (a *App) GetClassCheckpoints(ctx context.Context, actor, eventID uuid.UUID) (ClassCheckpoints, error) {
	if _, err := a.ownedEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}
	return a.repo.GetClassCheckpoints(ctx, eventID)
}

// SetClassCheckpoints replaces the checkpoints a class is timed over.
func (a *App) SetClassCheckpoints(ctx context.Context, actor, classID uuid.UUID, checkpointIDs []uuid.UUID) error {
	class, err := a.repo.GetClass(ctx, classID)
	if err != nil {
		return err
	}
	if _, err := a.ownedEvent(ctx, actor, class.EventID); err != nil {
		return err
	}

	checkpointIDs = lo.Uniq(checkpointIDs)
	if len(checkpointIDs) == 1 {
		return apperr.Validation("a class course needs at least two checkpoints")
	}

	checkpoints, err := a.repo.ListCheckpoints(ctx, class.EventID)
	if err != nil {
		return err
	}
	known := lo.SliceToMap(checkpoints, func(cp models.Checkpoint) (uuid.UUID, struct{}) { return cp.ID, struct{}{} })
	for _, id := range checkpointIDs {
		if _, ok := known[id]; !ok {
			return apperr.Validation("checkpoint %s does not belong to the class's event", id)
		}
	}

	if err := a.repo.ReplaceClassCheckpoints(ctx, class, checkpointIDs); err != nil {
		return err
	}

	log.Info().
		Str("event_id", class.EventID.String()).
		Str("class_id", class.ID.String()).
		Int("checkpoints", len(checkpointIDs)).
		Msg("class checkpoints replaced")
	return nil
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
