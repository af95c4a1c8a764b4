package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu     sync.Mutex
	rows   []OutboxEvent
	sent   map[uuid.UUID]bool
	failed error
}

func newMemStore(rows ...OutboxEvent) *memStore {
	return &memStore{rows: rows, sent: map[uuid.UUID]bool{}}
}

func (m *memStore) FetchOutboxByID(_ context.Context, id uuid.UUID) (*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id && !m.sent[id] {
			r := row
			return &r, nil
		}
	}
	return nil, ErrAlreadySent
}

func (m *memStore) FetchUnsentOutbox(_ context.Context, limit int32) ([]OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return nil, m.failed
	}
	var out []OutboxEvent
	for _, row := range m.rows {
		if !m.sent[row.ID] && int32(len(out)) < limit {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memStore) MarkOutboxSent(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[id] = true
	return nil
}

func (m *memStore) CountUnsentOutbox(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows) - len(m.sent)), nil
}

type flakyPublisher struct {
	failures  int
	calls     int
	published []OutboxEvent
}

func (p *flakyPublisher) Publish(_ context.Context, event OutboxEvent) error {
	p.calls++
	if p.failures > 0 {
		p.failures--
		return errors.New("nats: no responders available for request")
	}
	p.published = append(p.published, event)
	return nil
}

func testConfig() ListenerConfig {
	cfg := DefaultListenerConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetries = 2
	return cfg
}

func row(entity string) OutboxEvent {
	return OutboxEvent{ID: uuid.New(), EventID: uuid.New(), Entity: entity, CreatedAt: time.Now()}
}

func TestHandleNotification(t *testing.T) {
	ev := row("timestamps")
	store := newMemStore(ev)
	pub := &flakyPublisher{}
	l := &Listener{store: store, publisher: pub, cfg: testConfig()}
	ctx := context.Background()

	require.NoError(t, l.handleNotification(ctx, ev.ID.String()))
	require.Len(t, pub.published, 1)
	assert.Equal(t, ev.EventID, pub.published[0].EventID)
	assert.True(t, store.sent[ev.ID])

	// a second notification for the same row is a no-op
	require.NoError(t, l.handleNotification(ctx, ev.ID.String()))
	assert.Len(t, pub.published, 1)

	processed, last, _ := l.Stats()
	assert.Equal(t, uint64(1), processed)
	assert.False(t, last.IsZero())

	assert.Error(t, l.handleNotification(ctx, "not-a-uuid"))
}

func TestPublishRetriesThenMarksSent(t *testing.T) {
	ev := row("penalties")
	store := newMemStore(ev)
	pub := &flakyPublisher{failures: 2}
	l := &Listener{store: store, publisher: pub, cfg: testConfig()}

	require.NoError(t, l.handleNotification(context.Background(), ev.ID.String()))
	assert.Equal(t, 3, pub.calls)
	assert.True(t, store.sent[ev.ID])
}

func TestPublishGivesUpAndLeavesRowUnsent(t *testing.T) {
	ev := row("dnf_records")
	store := newMemStore(ev)
	pub := &flakyPublisher{failures: 10}
	l := &Listener{store: store, publisher: pub, cfg: testConfig()}

	err := l.handleNotification(context.Background(), ev.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish failed after 3 attempts")
	assert.False(t, store.sent[ev.ID])

	// the fallback sweep picks it up once the bus recovers
	pub.failures = 0
	require.NoError(t, l.processUnsent(context.Background()))
	assert.True(t, store.sent[ev.ID])
}

func TestProcessUnsentSweepsInOrder(t *testing.T) {
	a, b, c := row("timestamps"), row("penalties"), row("timestamps")
	store := newMemStore(a, b, c)
	pub := &flakyPublisher{}
	cfg := testConfig()
	cfg.BatchSize = 2
	l := &Listener{store: store, publisher: pub, cfg: cfg}
	ctx := context.Background()

	require.NoError(t, l.processUnsent(ctx))
	require.Len(t, pub.published, 2)
	assert.Equal(t, a.ID, pub.published[0].ID)
	assert.Equal(t, b.ID, pub.published[1].ID)

	require.NoError(t, l.processUnsent(ctx))
	require.Len(t, pub.published, 3)
	assert.Equal(t, c.ID, pub.published[2].ID)
}

func TestProcessUnsentFetchError(t *testing.T) {
	store := newMemStore()
	store.failed = errors.New("connection refused")
	l := &Listener{store: store, publisher: &flakyPublisher{}, cfg: testConfig()}

	assert.Error(t, l.processUnsent(context.Background()))
}

func TestSubject(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b")
	assert.Equal(t, "race.events.6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b", DefaultJetStreamConfig().Subject(id))
}
