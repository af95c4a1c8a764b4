package adjudication

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLedger struct {
	events      map[uuid.UUID]*models.Event
	racers      map[uuid.UUID]*models.Racer
	checkpoints map[uuid.UUID]*models.Checkpoint
	timestamps  map[uuid.UUID]*models.Timestamp
	penalties   []models.Penalty
	dnfs        map[uuid.UUID]models.DnfRecord
	audit       []AuditRecord
	outbox      int
	failAudit   bool
}

func newMemLedger() *memLedger {
	return &memLedger{
		events:      map[uuid.UUID]*models.Event{},
		racers:      map[uuid.UUID]*models.Racer{},
		checkpoints: map[uuid.UUID]*models.Checkpoint{},
		timestamps:  map[uuid.UUID]*models.Timestamp{},
		dnfs:        map[uuid.UUID]models.DnfRecord{},
	}
}

func (m *memLedger) GetEvent(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if ev, ok := m.events[id]; ok {
		return ev, nil
	}
	return nil, apperr.NotFound("event")
}

func (m *memLedger) GetRacer(_ context.Context, id uuid.UUID) (*models.Racer, error) {
	if r, ok := m.racers[id]; ok {
		return r, nil
	}
	return nil, apperr.NotFound("racer")
}

func (m *memLedger) GetCheckpoint(_ context.Context, id uuid.UUID) (*models.Checkpoint, error) {
	if cp, ok := m.checkpoints[id]; ok {
		return cp, nil
	}
	return nil, apperr.NotFound("checkpoint")
}

func (m *memLedger) GetTimestamp(_ context.Context, id uuid.UUID) (*models.Timestamp, uuid.UUID, error) {
	ts, ok := m.timestamps[id]
	if !ok {
		return nil, uuid.Nil, apperr.NotFound("timestamp")
	}
	c := *ts
	return &c, m.checkpoints[ts.CheckpointID].EventID, nil
}

func (m *memLedger) ListAudit(_ context.Context, eventID uuid.UUID) ([]models.AuditLogEntry, error) {
	var out []models.AuditLogEntry
	for i := len(m.audit) - 1; i >= 0; i-- {
		rec := m.audit[i]
		if rec.EventID != eventID {
			continue
		}
		out = append(out, models.AuditLogEntry{EventID: rec.EventID, Action: rec.Action, TargetID: rec.TargetID, Reason: rec.Reason})
	}
	return out, nil
}

// commit mimics the single transaction: the audit must succeed for the
// primary write to land.
func (m *memLedger) commit(audit AuditRecord, write func()) error {
	if m.failAudit {
		return assert.AnError
	}
	write()
	m.audit = append(m.audit, audit)
	m.outbox++
	return nil
}

func (m *memLedger) AddPenalty(_ context.Context, p models.Penalty, audit AuditRecord) (*models.Penalty, error) {
	err := m.commit(audit, func() { m.penalties = append(m.penalties, p) })
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *memLedger) MarkDnf(_ context.Context, d models.DnfRecord, audit AuditRecord) (*models.DnfRecord, error) {
	if _, exists := m.dnfs[d.RacerID]; exists {
		return nil, apperr.Conflict("racer is already marked DNF")
	}
	err := m.commit(audit, func() { m.dnfs[d.RacerID] = d })
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *memLedger) EditTimestamp(_ context.Context, id uuid.UUID, previous, recordedAt time.Time, audit AuditRecord) (*models.Timestamp, error) {
	ts := m.timestamps[id]
	if !ts.RecordedAt.Equal(previous) {
		return nil, apperr.Conflict("timestamp changed concurrently")
	}
	err := m.commit(audit, func() { ts.RecordedAt = recordedAt })
	if err != nil {
		return nil, err
	}
	c := *ts
	return &c, nil
}

type ledgerFixture struct {
	app     *App
	repo    *memLedger
	clock   *clockwork.FakeClock
	owner   uuid.UUID
	event   *models.Event
	racer   *models.Racer
	cp      *models.Checkpoint
	punched *models.Timestamp
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	repo := newMemLedger()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC))
	owner := uuid.New()

	ev := &models.Event{ID: uuid.New(), AdminID: owner, Name: "Khao Yai Enduro"}
	racer := &models.Racer{ID: uuid.New(), EventID: ev.ID, Name: "Somchai P."}
	cp := &models.Checkpoint{ID: uuid.New(), EventID: ev.ID, Name: "CP1", SortOrder: 1}
	ts := &models.Timestamp{
		ID:           uuid.New(),
		CheckpointID: cp.ID,
		RacerID:      racer.ID,
		RecordedAt:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	repo.events[ev.ID] = ev
	repo.racers[racer.ID] = racer
	repo.checkpoints[cp.ID] = cp
	repo.timestamps[ts.ID] = ts

	return &ledgerFixture{
		app:     NewApp(repo, clock),
		repo:    repo,
		clock:   clock,
		owner:   owner,
		event:   ev,
		racer:   racer,
		cp:      cp,
		punched: ts,
	}
}

func TestAddPenalty(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	p, err := f.app.AddPenalty(ctx, f.owner, AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 30, Reason: "  cut the course  "})
	require.NoError(t, err)
	assert.Equal(t, 30, p.Seconds)
	assert.Equal(t, "cut the course", p.Reason)
	assert.Equal(t, f.owner, p.CreatedBy)

	require.Len(t, f.repo.audit, 1)
	rec := f.repo.audit[0]
	assert.Equal(t, models.AuditActionAddPenalty, rec.Action)
	assert.Equal(t, models.AuditTargetRacer, rec.TargetType)
	assert.Equal(t, f.racer.ID, rec.TargetID)
	assert.Nil(t, rec.OldValue)
	newValue, err := json.Marshal(rec.NewValue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"seconds":30,"reason":"cut the course"}`, string(newValue))
	assert.Equal(t, 1, f.repo.outbox)
}

func TestAddPenaltyRejections(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   uuid.UUID
		req     AddPenaltyRequest
		wantErr error
	}{
		{"zero seconds", f.owner, AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 0, Reason: "x"}, apperr.ErrValidation},
		{"blank reason", f.owner, AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 10, Reason: "   "}, apperr.ErrValidation},
		{"unknown racer", f.owner, AddPenaltyRequest{RacerID: uuid.New(), Seconds: 10, Reason: "x"}, apperr.ErrNotFound},
		{"other organizer", uuid.New(), AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 10, Reason: "x"}, apperr.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.app.AddPenalty(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.repo.penalties)
	assert.Empty(t, f.repo.audit)
}

func TestAuditFailureRollsBackPenalty(t *testing.T) {
	f := newLedgerFixture(t)
	f.repo.failAudit = true

	_, err := f.app.AddPenalty(context.Background(), f.owner, AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 10, Reason: "x"})
	require.Error(t, err)
	assert.Empty(t, f.repo.penalties)
	assert.Zero(t, f.repo.outbox)
}

func TestMarkDnf(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	dnf, err := f.app.MarkDnf(ctx, f.owner, MarkDnfRequest{RacerID: f.racer.ID, CheckpointID: &f.cp.ID, Reason: "broken chain"})
	require.NoError(t, err)
	require.NotNil(t, dnf.CheckpointID)
	assert.Equal(t, f.cp.ID, *dnf.CheckpointID)

	require.Len(t, f.repo.audit, 1)
	newValue, err := json.Marshal(f.repo.audit[0].NewValue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reason":"broken chain","checkpoint_id":"`+f.cp.ID.String()+`"}`, string(newValue))

	_, err = f.app.MarkDnf(ctx, f.owner, MarkDnfRequest{RacerID: f.racer.ID, Reason: "again"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Len(t, f.repo.audit, 1)
}

func TestMarkDnfCheckpointFromOtherEvent(t *testing.T) {
	f := newLedgerFixture(t)
	foreign := &models.Checkpoint{ID: uuid.New(), EventID: uuid.New(), Name: "Elsewhere"}
	f.repo.checkpoints[foreign.ID] = foreign

	_, err := f.app.MarkDnf(context.Background(), f.owner, MarkDnfRequest{RacerID: f.racer.ID, CheckpointID: &foreign.ID, Reason: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.app.MarkDnf(context.Background(), f.owner, MarkDnfRequest{RacerID: f.racer.ID, Reason: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, f.repo.dnfs)
}

func TestEditTimestamp(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	corrected := time.Date(2026, 3, 14, 8, 59, 12, 0, time.UTC)

	ts, err := f.app.EditTimestamp(ctx, f.owner, EditTimestampRequest{TimestampID: f.punched.ID, RecordedAt: corrected, Reason: "staff keyed late"})
	require.NoError(t, err)
	assert.Equal(t, corrected, ts.RecordedAt)

	require.Len(t, f.repo.audit, 1)
	rec := f.repo.audit[0]
	assert.Equal(t, models.AuditActionEditTimestamp, rec.Action)
	assert.Equal(t, models.AuditTargetTimestamp, rec.TargetType)
	oldValue, err := json.Marshal(rec.OldValue)
	require.NoError(t, err)
	newValue, err := json.Marshal(rec.NewValue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recorded_at":"2026-03-14T09:00:00Z"}`, string(oldValue))
	assert.JSONEq(t, `{"recorded_at":"2026-03-14T08:59:12Z"}`, string(newValue))
}

func TestEditTimestampAuditMatchesStoredPrecision(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	corrected := time.Date(2026, 3, 14, 8, 59, 12, 123456789, time.UTC)
	stored := time.Date(2026, 3, 14, 8, 59, 12, 123456000, time.UTC)

	ts, err := f.app.EditTimestamp(ctx, f.owner, EditTimestampRequest{TimestampID: f.punched.ID, RecordedAt: corrected, Reason: "photo finish"})
	require.NoError(t, err)
	assert.Equal(t, stored, ts.RecordedAt)

	require.Len(t, f.repo.audit, 1)
	newValue, err := json.Marshal(f.repo.audit[0].NewValue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recorded_at":"2026-03-14T08:59:12.123456Z"}`, string(newValue))
}

func TestEditTimestampRejections(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	valid := f.clock.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		actor   uuid.UUID
		req     EditTimestampRequest
		wantErr error
	}{
		{"missing reason", f.owner, EditTimestampRequest{TimestampID: f.punched.ID, RecordedAt: valid}, apperr.ErrValidation},
		{"zero time", f.owner, EditTimestampRequest{TimestampID: f.punched.ID, Reason: "x"}, apperr.ErrValidation},
		{"future time", f.owner, EditTimestampRequest{TimestampID: f.punched.ID, RecordedAt: f.clock.Now().Add(time.Hour), Reason: "x"}, apperr.ErrValidation},
		{"unknown timestamp", f.owner, EditTimestampRequest{TimestampID: uuid.New(), RecordedAt: valid, Reason: "x"}, apperr.ErrNotFound},
		{"other organizer", uuid.New(), EditTimestampRequest{TimestampID: f.punched.ID, RecordedAt: valid, Reason: "x"}, apperr.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.app.EditTimestamp(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.repo.audit)
}

func TestAuditCountMatchesActions(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.app.AddPenalty(ctx, f.owner, AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 10, Reason: "a"})
	require.NoError(t, err)
	_, err = f.app.AddPenalty(ctx, f.owner, AddPenaltyRequest{RacerID: f.racer.ID, Seconds: 20, Reason: "b"})
	require.NoError(t, err)
	_, err = f.app.EditTimestamp(ctx, f.owner, EditTimestampRequest{TimestampID: f.punched.ID, RecordedAt: f.clock.Now().Add(-2 * time.Hour), Reason: "c"})
	require.NoError(t, err)
	_, err = f.app.MarkDnf(ctx, f.owner, MarkDnfRequest{RacerID: f.racer.ID, Reason: "d"})
	require.NoError(t, err)

	entries, err := f.app.ListAudit(ctx, f.owner, f.event.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, models.AuditActionMarkDnf, entries[0].Action, "newest first")
	assert.Equal(t, 4, f.repo.outbox)

	_, err = f.app.ListAudit(ctx, uuid.New(), f.event.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
