package ranking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RankingRepository defines what the app layer needs from the repository
type RankingRepository interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	LoadRaceData(ctx context.Context, eventID uuid.UUID) (*RaceData, error)
}

// EventSummary is the public part of an event.
type EventSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	RaceDate time.Time `json:"race_date"`
}

// Results is the public leaderboard of an event.
type Results struct {
	Event       EventSummary    `json:"event"`
	Checkpoints []CheckpointRef `json:"checkpoints"`
	Rankings    []RankedRacer   `json:"rankings"`
}

// App serves leaderboards recomputed from current persisted state
type App struct {
	repo RankingRepository
}

// NewApp creates a new ranking App
func NewApp(repo RankingRepository) *App {
	return &App{
		repo: repo,
	}
}

// GetRankings ranks an event, optionally one class only. Unpublished events
// are visible to their organizer alone; anyone else gets not found. viewer
// is uuid.Nil for anonymous callers.
func (a *App) GetRankings(ctx context.Context, viewer uuid.UUID, eventID uuid.UUID, classID *uuid.UUID) ([]RankedRacer, error) {
	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Published && !event.OwnedBy(viewer) {
		return nil, apperr.NotFound("event")
	}

	data, err := a.repo.LoadRaceData(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	return rankCohorts(event.ID, data, classID)
}

// GetResults is the public leaderboard addressed by slug. Only published
// events are served.
func (a *App) GetResults(ctx context.Context, slug string, classID *uuid.UUID) (*Results, error) {
	if slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	event, err := a.repo.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !event.Published {
		return nil, apperr.NotFound("event")
	}

	data, err := a.repo.LoadRaceData(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	rankings, err := rankCohorts(event.ID, data, classID)
	if err != nil {
		return nil, err
	}

	return &Results{
		Event: EventSummary{
			ID:       event.ID,
			Name:     event.Name,
			Slug:     event.Slug,
			RaceDate: event.RaceDate,
		},
		Checkpoints: checkpointRefs(data.Checkpoints),
		Rankings:    rankings,
	}, nil
}

// rankCohorts ranks each class on its own so rank and gap always refer to
// the class shown. Without a filter the cohorts follow class sort order.
func rankCohorts(eventID uuid.UUID, data *RaceData, classID *uuid.UUID) ([]RankedRacer, error) {
	classes := data.Classes
	if classID != nil {
		class, ok := lo.Find(classes, func(c models.RaceClass) bool { return c.ID == *classID })
		if !ok {
			return nil, apperr.NotFound("class")
		}
		classes = []models.RaceClass{class}
	}

	out := make([]RankedRacer, 0, len(data.Entries))
	for _, class := range classes {
		cohort := lo.Filter(data.Entries, func(e Entry, _ int) bool { return e.ClassID == class.ID })
		if len(cohort) == 0 {
			continue
		}
		order := classCheckpointOrder(data, class.ID)
		out = append(out, Rank(cohort, data.Timestamps, data.Penalties, data.Dnfs, order)...)
	}

	log.Debug().
		Str("event_id", eventID.String()).
		Int("classes", len(classes)).
		Int("rows", len(out)).
		Msg("rankings computed")
	return out, nil
}

// classCheckpointOrder is the class's mapped checkpoints in sort order, or
// every event checkpoint when the class has no mapping.
func classCheckpointOrder(data *RaceData, classID uuid.UUID) []CheckpointRef {
	mapped, ok := data.ClassCheckpoints[classID]
	if !ok || len(mapped) == 0 {
		return checkpointRefs(data.Checkpoints)
	}
	allowed := lo.SliceToMap(mapped, func(id uuid.UUID) (uuid.UUID, struct{}) { return id, struct{}{} })
	return checkpointRefs(lo.Filter(data.Checkpoints, func(cp models.Checkpoint, _ int) bool {
		_, ok := allowed[cp.ID]
		return ok
	}))
}

func checkpointRefs(checkpoints []models.Checkpoint) []CheckpointRef {
	return lo.Map(checkpoints, func(cp models.Checkpoint, _ int) CheckpointRef {
		return CheckpointRef{ID: cp.ID, Name: cp.Name}
	})
}
