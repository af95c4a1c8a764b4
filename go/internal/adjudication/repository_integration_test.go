package adjudication

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/kpcrmv4/AProject/go/internal/testsupport/tcpostgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationLedgerWrites(t *testing.T) {
	tdb := tcpostgres.SetupTestDB(t)
	race := tdb.SeedRace(t)
	ctx := context.Background()

	app := NewApp(NewRepository(racedb.New(tdb.DB), tdb.DB), clockwork.NewRealClock())

	_, err := app.AddPenalty(ctx, race.AdminID, AddPenaltyRequest{RacerID: race.RacerID, Seconds: 60, Reason: "missed flag"})
	require.NoError(t, err)
	_, err = app.MarkDnf(ctx, race.AdminID, MarkDnfRequest{RacerID: race.RacerID, CheckpointID: &race.Checkpoints[1], Reason: "crash"})
	require.NoError(t, err)
	_, err = app.MarkDnf(ctx, race.AdminID, MarkDnfRequest{RacerID: race.RacerID, Reason: "again"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	entries, err := app.ListAudit(ctx, race.AdminID, race.EventID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditActionMarkDnf, entries[0].Action)
	assert.Nil(t, entries[1].OldValue)
	assert.JSONEq(t, `{"seconds":60,"reason":"missed flag"}`, string(entries[1].NewValue))

	_, err = tdb.Pool.Exec(ctx, `UPDATE audit_logs SET reason = 'tampered' WHERE id = $1`, entries[0].ID)
	assert.Error(t, err, "audit log is append-only")
	_, err = tdb.Pool.Exec(ctx, `DELETE FROM audit_logs WHERE id = $1`, entries[0].ID)
	assert.Error(t, err, "audit log is append-only")

	var outboxRows int
	require.NoError(t, tdb.Pool.QueryRow(ctx,
		`SELECT count(*) FROM race_outbox WHERE event_id = $1`, race.EventID).Scan(&outboxRows))
	assert.Equal(t, 2, outboxRows, "the rejected DNF left nothing behind")
}

func TestIntegrationEditTimestamp(t *testing.T) {
	tdb := tcpostgres.SetupTestDB(t)
	race := tdb.SeedRace(t)
	ctx := context.Background()

	tsID := uuid.New()
	punched := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	_, err := tdb.Pool.Exec(ctx,
		`INSERT INTO timestamps (id, checkpoint_id, racer_id, recorded_at, created_at) VALUES ($1, $2, $3, $4, $4)`,
		tsID, race.Checkpoints[0], race.RacerID, punched)
	require.NoError(t, err)

	app := NewApp(NewRepository(racedb.New(tdb.DB), tdb.DB), clockwork.NewRealClock())
	corrected := punched.Add(-45 * time.Second)
	ts, err := app.EditTimestamp(ctx, race.AdminID, EditTimestampRequest{TimestampID: tsID, RecordedAt: corrected, Reason: "clock drift"})
	require.NoError(t, err)
	assert.True(t, corrected.Equal(ts.RecordedAt))

	entries, err := app.ListAudit(ctx, race.AdminID, race.EventID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditTargetTimestamp, entries[0].TargetType)
	assert.Equal(t, "clock drift", entries[0].Reason)
	assert.NotNil(t, entries[0].OldValue)
}
