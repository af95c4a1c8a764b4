package accesscode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/testsupport/tcpostgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationConcurrentRegenerateNeverSharesCode(t *testing.T) {
	tdb := tcpostgres.SetupTestDB(t)
	race := tdb.SeedRace(t)
	ctx := context.Background()

	repo := NewRepository(racedb.New(tdb.DB), tdb.DB)
	// race_date is CURRENT_DATE; start of the UTC day keeps new codes live.
	clock := clockwork.NewFakeClockAt(time.Now().UTC().Truncate(24 * time.Hour))

	const rounds = 20
	for round := 0; round < rounds; round++ {
		results := make([]*models.Checkpoint, len(race.Checkpoints))
		var wg sync.WaitGroup
		for i, cpID := range race.Checkpoints {
			wg.Add(1)
			go func(i int, cpID uuid.UUID) {
				defer wg.Done()
				app := NewApp(repo, clock, time.UTC)
				codes := []string{"7777", "8888", "9999"}
				if round%2 == 1 {
					codes = []string{"6666", "5555", "4444"}
				}
				app.generate = func() (string, error) {
					c := codes[0]
					codes = codes[1:]
					return c, nil
				}
				cp, err := app.Regenerate(ctx, race.AdminID, cpID)
				if assert.NoError(t, err) {
					results[i] = cp
				}
			}(i, cpID)
		}
		wg.Wait()

		require.NotNil(t, results[0])
		require.NotNil(t, results[1])
		assert.NotEqual(t, results[0].AccessCode, results[1].AccessCode, "round %d", round)
	}
}
