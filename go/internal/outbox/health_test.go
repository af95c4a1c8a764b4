package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubNATS bool

func (s stubNATS) Connected() bool { return bool(s) }

func TestHealthChecker(t *testing.T) {
	store := newMemStore(row("timestamps"))
	l := &Listener{store: store, publisher: &flakyPublisher{}, cfg: testConfig()}
	l.setRunning(true)

	h := NewHealthChecker(l, stubPinger{}, store, stubNATS(true), time.Minute)
	status := h.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.DatabaseConnected)
	assert.True(t, status.NATSConnected)
	assert.Equal(t, int64(1), status.PendingEvents)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.ListenerActive)
}

func TestHealthCheckerUnhealthy(t *testing.T) {
	store := newMemStore()
	l := &Listener{store: store, publisher: &flakyPublisher{}, cfg: testConfig()}

	h := NewHealthChecker(l, stubPinger{err: errors.New("dial tcp: connection refused")}, store, stubNATS(false), time.Minute)
	status := h.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.False(t, status.DatabaseConnected)
	assert.Len(t, status.Errors, 3)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
