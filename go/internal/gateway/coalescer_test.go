package gateway

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emission struct {
	eventID uuid.UUID
	at      time.Time
}

type recorder struct {
	mu  sync.Mutex
	got []emission
}

func (r *recorder) emit(eventID uuid.UUID, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, emission{eventID, at})
}

func (r *recorder) snapshot() []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emission(nil), r.got...)
}

func TestCoalescerFoldsBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	c := NewCoalescer(clock, 500*time.Millisecond, rec.emit)
	start := clock.Now()
	event := uuid.New()

	for i := 0; i < 20; i++ {
		c.Signal(event)
		clock.Advance(10 * time.Millisecond)
	}
	assert.Equal(t, 1, c.Pending())
	assert.Empty(t, rec.snapshot())

	clock.Advance(400 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	got := rec.snapshot()[0]
	assert.Equal(t, event, got.eventID)
	assert.Equal(t, start.Add(500*time.Millisecond), got.at)
	assert.Eventually(t, func() bool { return c.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCoalescerRearmsAfterEmit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	c := NewCoalescer(clock, 500*time.Millisecond, rec.emit)
	event := uuid.New()

	c.Signal(event)
	clock.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return c.Pending() == 0 }, time.Second, 5*time.Millisecond)

	c.Signal(event)
	clock.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestCoalescerKeepsEventsApart(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	c := NewCoalescer(clock, 500*time.Millisecond, rec.emit)
	a, b := uuid.New(), uuid.New()

	c.Signal(a)
	c.Signal(b)
	c.Signal(a)
	assert.Equal(t, 2, c.Pending())

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	ids := []uuid.UUID{rec.snapshot()[0].eventID, rec.snapshot()[1].eventID}
	assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)
}

func TestCoalescerStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	c := NewCoalescer(clock, 500*time.Millisecond, rec.emit)

	c.Signal(uuid.New())
	c.Stop()
	c.Signal(uuid.New())
	assert.Zero(t, c.Pending())

	clock.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestCoalescerDefaultWindow(t *testing.T) {
	c := NewCoalescer(clockwork.NewFakeClock(), 0, func(uuid.UUID, time.Time) {})
	assert.Equal(t, DefaultCoalesceWindow, c.window)
}
