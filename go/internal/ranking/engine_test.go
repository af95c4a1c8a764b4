package ranking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

type raceBuilder struct {
	classID    uuid.UUID
	order      []CheckpointRef
	entries    []Entry
	timestamps []models.Timestamp
	penalties  []models.Penalty
	dnfs       []models.DnfRecord
}

func newRace(checkpoints ...string) *raceBuilder {
	b := &raceBuilder{classID: uuid.New()}
	for _, name := range checkpoints {
		b.order = append(b.order, CheckpointRef{ID: uuid.New(), Name: name})
	}
	return b
}

func (b *raceBuilder) racer(number int) uuid.UUID {
	id := uuid.New()
	b.entries = append(b.entries, Entry{RacerID: id, RacerName: "R" + string(rune('0'+number%10)), RaceNumber: number, ClassID: b.classID, ClassName: "Open"})
	return id
}

func (b *raceBuilder) punch(racer uuid.UUID, checkpoint int, offset time.Duration) {
	b.timestamps = append(b.timestamps, models.Timestamp{
		ID:           uuid.New(),
		CheckpointID: b.order[checkpoint].ID,
		RacerID:      racer,
		RecordedAt:   t0.Add(offset),
	})
}

func (b *raceBuilder) penalize(racer uuid.UUID, seconds int) {
	b.penalties = append(b.penalties, models.Penalty{ID: uuid.New(), RacerID: racer, Seconds: seconds, Reason: "x"})
}

func (b *raceBuilder) dnf(racer uuid.UUID) {
	b.dnfs = append(b.dnfs, models.DnfRecord{ID: uuid.New(), RacerID: racer, Reason: "x"})
}

func (b *raceBuilder) rank() []RankedRacer {
	return Rank(b.entries, b.timestamps, b.penalties, b.dnfs, b.order)
}

func find(t *testing.T, rows []RankedRacer, id uuid.UUID) RankedRacer {
	t.Helper()
	for _, r := range rows {
		if r.RacerID == id {
			return r
		}
	}
	require.FailNow(t, "racer not in leaderboard")
	return RankedRacer{}
}

func TestRankPenaltyAddsToTotal(t *testing.T) {
	b := newRace("A", "B")
	r := b.racer(1)
	b.punch(r, 0, 0)
	b.punch(r, 1, 90*time.Second)
	b.penalize(r, 30)

	row := find(t, b.rank(), r)
	assert.Equal(t, StatusFinished, row.Status)
	assert.Equal(t, 90, *row.TotalSeconds)
	assert.Equal(t, 30, row.PenaltySeconds)
	assert.Equal(t, 120, *row.FinalSeconds)
}

func TestRankScenarios(t *testing.T) {
	b := newRace("A", "B")
	r42 := b.racer(42)
	r7 := b.racer(7)
	slow := b.racer(3)
	retired := b.racer(9)

	b.punch(r42, 0, 0)
	b.punch(r42, 1, 200*time.Second)
	b.punch(r7, 0, 10*time.Second)
	b.punch(slow, 0, 0)
	b.punch(slow, 1, 260*time.Second)
	b.punch(retired, 0, 0)
	b.punch(retired, 1, 100*time.Second)
	b.dnf(retired)

	rows := b.rank()
	require.Len(t, rows, 4)
	assert.Equal(t, []uuid.UUID{r42, slow, r7, retired}, []uuid.UUID{rows[0].RacerID, rows[1].RacerID, rows[2].RacerID, rows[3].RacerID})

	leader := rows[0]
	assert.Equal(t, StatusFinished, leader.Status)
	assert.Equal(t, 200, *leader.TotalSeconds)
	assert.Equal(t, 1, *leader.Rank)
	assert.Equal(t, 0, *leader.Gap)

	assert.Equal(t, 2, *rows[1].Rank)
	assert.Equal(t, 60, *rows[1].Gap)

	racing := rows[2]
	assert.Equal(t, StatusRacing, racing.Status)
	assert.Nil(t, racing.TotalSeconds)
	assert.Nil(t, racing.FinalSeconds)
	assert.Nil(t, racing.Rank)
	assert.Nil(t, racing.Gap)
	require.Len(t, racing.Checkpoints, 2)
	assert.NotNil(t, racing.Checkpoints[0].Time)
	assert.Nil(t, racing.Checkpoints[1].Time)

	out := rows[3]
	assert.Equal(t, StatusDnf, out.Status, "dnf overrides a complete timestamp set")
	assert.Equal(t, 100, *out.FinalSeconds)
	assert.Nil(t, out.Rank)
	assert.Nil(t, out.Gap)
}

func TestRankPenaltyResorts(t *testing.T) {
	b := newRace("A", "B")
	first := b.racer(1)
	second := b.racer(2)
	b.punch(first, 0, 0)
	b.punch(first, 1, 300*time.Second)
	b.punch(second, 0, 0)
	b.punch(second, 1, 330*time.Second)

	rows := b.rank()
	assert.Equal(t, first, rows[0].RacerID)

	b.penalize(first, 60)
	rows = b.rank()
	assert.Equal(t, second, rows[0].RacerID)
	assert.Equal(t, first, rows[1].RacerID)
	assert.Equal(t, 360, *rows[1].FinalSeconds)
	assert.Equal(t, 30, *rows[1].Gap)
}

func TestRankTiesKeepEntryOrder(t *testing.T) {
	b := newRace("A", "B")
	ids := []uuid.UUID{b.racer(5), b.racer(6), b.racer(7)}
	for _, id := range ids {
		b.punch(id, 0, 0)
		b.punch(id, 1, 150*time.Second)
	}

	rows := b.rank()
	for i, id := range ids {
		assert.Equal(t, id, rows[i].RacerID)
		assert.Equal(t, i+1, *rows[i].Rank)
		assert.Equal(t, 0, *rows[i].Gap)
	}
}

func TestRankIsIdempotent(t *testing.T) {
	b := newRace("A", "B", "C")
	for n := 1; n <= 6; n++ {
		id := b.racer(n)
		b.punch(id, 0, time.Duration(n)*time.Second)
		if n%3 != 0 {
			b.punch(id, 2, time.Duration(400-n*17)*time.Second)
		}
		if n == 4 {
			b.dnf(id)
		}
	}
	assert.Equal(t, b.rank(), b.rank())
}

func TestRankElapsedUsesFirstAndLastPunched(t *testing.T) {
	b := newRace("Start", "Mid", "Finish")
	skipper := b.racer(1)
	b.punch(skipper, 1, 50*time.Second)
	b.punch(skipper, 2, 170*time.Second)

	row := find(t, b.rank(), skipper)
	assert.Equal(t, 120, *row.TotalSeconds)
}

func TestRankRoundsToNearestSecond(t *testing.T) {
	b := newRace("A", "B")
	up := b.racer(1)
	down := b.racer(2)
	b.punch(up, 0, 0)
	b.punch(up, 1, 10*time.Second+500*time.Millisecond)
	b.punch(down, 0, 0)
	b.punch(down, 1, 10*time.Second+499*time.Millisecond)

	rows := b.rank()
	assert.Equal(t, 11, *find(t, rows, up).TotalSeconds)
	assert.Equal(t, 10, *find(t, rows, down).TotalSeconds)
}

func TestRankIgnoresPassagesOutsideOrder(t *testing.T) {
	b := newRace("A", "B")
	r := b.racer(1)
	b.punch(r, 0, 0)
	b.timestamps = append(b.timestamps, models.Timestamp{CheckpointID: uuid.New(), RacerID: r, RecordedAt: t0.Add(time.Hour)})

	row := find(t, b.rank(), r)
	assert.Equal(t, StatusRacing, row.Status)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, nil, nil, nil, nil))
}
