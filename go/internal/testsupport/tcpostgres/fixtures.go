package tcpostgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// RaceFixture is a minimal published event with one class, two checkpoints
// and one racer wearing number 42.
type RaceFixture struct {
	EventID     uuid.UUID
	AdminID     uuid.UUID
	ClassID     uuid.UUID
	Checkpoints []uuid.UUID
	RacerID     uuid.UUID
	RaceNumber  int
}

// SeedRace inserts a RaceFixture through the pgx pool.
func (tdb *TestDB) SeedRace(t *testing.T) RaceFixture {
	t.Helper()
	ctx := context.Background()
	f := RaceFixture{
		EventID:     uuid.New(),
		AdminID:     uuid.New(),
		ClassID:     uuid.New(),
		Checkpoints: []uuid.UUID{uuid.New(), uuid.New()},
		RacerID:     uuid.New(),
		RaceNumber:  42,
	}
	expires := time.Now().Add(24 * time.Hour)

	_, err := tdb.Pool.Exec(ctx,
		`INSERT INTO events (id, admin_id, slug, name, race_date, published) VALUES ($1, $2, $3, $4, CURRENT_DATE, true)`,
		f.EventID, f.AdminID, "test-"+f.EventID.String()[:8], "Integration Enduro")
	require.NoError(t, err)
	_, err = tdb.Pool.Exec(ctx,
		`INSERT INTO classes (id, event_id, name, sort_order) VALUES ($1, $2, 'Open', 1)`,
		f.ClassID, f.EventID)
	require.NoError(t, err)
	for i, cp := range f.Checkpoints {
		_, err = tdb.Pool.Exec(ctx,
			`INSERT INTO checkpoints (id, event_id, name, sort_order, access_code, code_expires_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			cp, f.EventID, fmt.Sprintf("CP%d", i+1), i+1, fmt.Sprintf("%04d", 1000+i*11), expires)
		require.NoError(t, err)
	}
	_, err = tdb.Pool.Exec(ctx,
		`INSERT INTO racers (id, event_id, name) VALUES ($1, $2, 'Integration Rider')`,
		f.RacerID, f.EventID)
	require.NoError(t, err)
	_, err = tdb.Pool.Exec(ctx,
		`INSERT INTO racer_classes (id, racer_id, class_id, race_number, confirmed) VALUES ($1, $2, $3, $4, true)`,
		uuid.New(), f.RacerID, f.ClassID, f.RaceNumber)
	require.NoError(t, err)
	return f
}
