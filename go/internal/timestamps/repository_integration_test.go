package timestamps

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/testsupport/tcpostgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationConcurrentPunches(t *testing.T) {
	tdb := tcpostgres.SetupTestDB(t)
	race := tdb.SeedRace(t)
	ctx := context.Background()

	repo := NewRepository(racedb.New(tdb.DB), tdb.DB)
	app := NewApp(repo, clockwork.NewRealClock(), DefaultUndoWindow)

	const punches = 12
	statuses := make(chan OutcomeStatus, punches)
	var wg sync.WaitGroup
	for i := 0; i < punches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := app.Record(ctx, RecordRequest{CheckpointID: race.Checkpoints[0], RacerNumber: race.RaceNumber})
			if assert.NoError(t, err) {
				statuses <- out.Status
			}
		}()
	}
	wg.Wait()
	close(statuses)

	counts := map[OutcomeStatus]int{}
	for s := range statuses {
		counts[s]++
	}
	assert.Equal(t, 1, counts[OutcomeRecorded])
	assert.Equal(t, punches-1, counts[OutcomeDuplicate])

	var stored, outboxRows int
	require.NoError(t, tdb.Pool.QueryRow(ctx,
		`SELECT count(*) FROM timestamps WHERE racer_id = $1`, race.RacerID).Scan(&stored))
	require.NoError(t, tdb.Pool.QueryRow(ctx,
		`SELECT count(*) FROM race_outbox WHERE event_id = $1 AND entity = 'timestamps'`, race.EventID).Scan(&outboxRows))
	assert.Equal(t, 1, stored)
	assert.Equal(t, 1, outboxRows, "rolled back duplicates leave no outbox rows")
}

func TestIntegrationUndoIsRecheckedInStatement(t *testing.T) {
	tdb := tcpostgres.SetupTestDB(t)
	race := tdb.SeedRace(t)
	ctx := context.Background()

	repo := NewRepository(racedb.New(tdb.DB), tdb.DB)
	clock := clockwork.NewFakeClockAt(time.Now())
	app := NewApp(repo, clock, DefaultUndoWindow)

	out, err := app.Record(ctx, RecordRequest{CheckpointID: race.Checkpoints[1], RacerNumber: race.RaceNumber})
	require.NoError(t, err)

	// A cutoff at or past created_at deletes nothing.
	err = repo.DeleteCreatedAfter(ctx, race.EventID, *out.TimestampID, *out.RecordedAt)
	assert.ErrorIs(t, err, ErrNothingDeleted)

	clock.Advance(5 * time.Second)
	assert.ErrorIs(t, app.Undo(ctx, *out.TimestampID), apperr.ErrUndoExpired)

	_, _, err = repo.GetTimestamp(ctx, *out.TimestampID)
	require.NoError(t, err, "expired undo keeps the row")
}
