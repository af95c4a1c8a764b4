package accesscode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/rs/zerolog/log"
)

var codePattern = regexp.MustCompile(`^\d{4}$`)

// maxGenerateAttempts bounds the search for a code no other live checkpoint holds.
const maxGenerateAttempts = 10

// AccessCodeRepository defines what the app layer needs from the repository
type AccessCodeRepository interface {
	FindLiveCheckpoint(ctx context.Context, code string, now time.Time) (*CodeSession, error)
	GetCheckpoint(ctx context.Context, id uuid.UUID) (*models.Checkpoint, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ClaimCode(ctx context.Context, id uuid.UUID, code string, now, expiresAt time.Time) (*models.Checkpoint, error)
	ListCheckpoints(ctx context.Context, eventID uuid.UUID) ([]models.Checkpoint, error)
}

// App handles checkpoint access code rules
type App struct {
	repo     AccessCodeRepository
	clock    clockwork.Clock
	location *time.Location
	generate func() (string, error)
}

// NewApp creates a new access code App. Codes expire at the end of race day
// in location.
func NewApp(repo AccessCodeRepository, clock clockwork.Clock, location *time.Location) *App {
	return &App{
		repo:     repo,
		clock:    clock,
		location: location,
		generate: randomCode,
	}
}

// Validate resolves a staff access code to its checkpoint. Wrong and expired
// codes both yield apperr.ErrNotAuthorized.
func (a *App) Validate(ctx context.Context, code string) (*CodeSession, error) {
	if !codePattern.MatchString(code) {
		return nil, apperr.Validation("access code must be 4 digits")
	}

	session, err := a.repo.FindLiveCheckpoint(ctx, code, a.clock.Now())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid or expired access code", apperr.ErrNotAuthorized)
		}
		return nil, err
	}

	log.Info().
		Str("checkpoint_id", session.CheckpointID.String()).
		Str("event_id", session.EventID.String()).
		Msg("access code accepted")
	return session, nil
}

// Regenerate issues a fresh code for a checkpoint owned by actor.
func (a *App) Regenerate(ctx context.Context, actor uuid.UUID, checkpointID uuid.UUID) (*models.Checkpoint, error) {
	cp, err := a.repo.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	event, err := a.repo.GetEvent(ctx, cp.EventID)
	if err != nil {
		return nil, err
	}
	if !event.OwnedBy(actor) {
		return nil, apperr.Forbidden("checkpoint belongs to another organizer's event")
	}
	return a.rotate(ctx, cp, event)
}

// RotateEvent regenerates every checkpoint code of an event. It is an
// operator path with no ownership check.
func (a *App) RotateEvent(ctx context.Context, eventID uuid.UUID) ([]models.Checkpoint, error) {
	event, err := a.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	checkpoints, err := a.repo.ListCheckpoints(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rotated := make([]models.Checkpoint, 0, len(checkpoints))
	for i := range checkpoints {
		cp, err := a.rotate(ctx, &checkpoints[i], event)
		if err != nil {
			return nil, fmt.Errorf("failed to rotate checkpoint %s: %w", checkpoints[i].ID, err)
		}
		rotated = append(rotated, *cp)
	}
	return rotated, nil
}

func (a *App) rotate(ctx context.Context, cp *models.Checkpoint, event *models.Event) (*models.Checkpoint, error) {
	now := a.clock.Now()
	expiresAt := EndOfRaceDay(event.RaceDate, a.location)

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := a.generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate access code: %w", err)
		}
		if code == cp.AccessCode {
			continue
		}
		updated, err := a.repo.ClaimCode(ctx, cp.ID, code, now, expiresAt)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("checkpoint_id", cp.ID.String()).
			Str("event_id", event.ID.String()).
			Time("code_expires_at", expiresAt).
			Msg("access code regenerated")
		return updated, nil
	}

	return nil, apperr.Conflict("no free access code found, try again")
}

// EndOfRaceDay is 23:59:59 of the race date in location.
func EndOfRaceDay(raceDate time.Time, location *time.Location) time.Time {
	y, m, d := raceDate.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, location)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
