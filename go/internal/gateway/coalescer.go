package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const DefaultCoalesceWindow = 500 * time.Millisecond

// EmitFunc receives one coalesced change per event per window.
type EmitFunc func(eventID uuid.UUID, at time.Time)

type armedWindow struct {
	timer clockwork.Timer
	due   time.Time
}

// Coalescer folds bursts of change signals for the same event into a single
// emission at the end of the window that the first signal opened.
type Coalescer struct {
	clock  clockwork.Clock
	window time.Duration
	emit   EmitFunc

	mu      sync.Mutex
	pending map[uuid.UUID]armedWindow
	stopped bool
	folded  map[uuid.UUID]int
}

func NewCoalescer(clock clockwork.Clock, window time.Duration, emit EmitFunc) *Coalescer {
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return &Coalescer{
		clock:   clock,
		window:  window,
		emit:    emit,
		pending: make(map[uuid.UUID]armedWindow),
		folded:  make(map[uuid.UUID]int),
	}
}

// Signal records that eventID changed.
func (c *Coalescer) Signal(eventID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if _, armed := c.pending[eventID]; armed {
		c.folded[eventID]++
		return
	}
	due := c.clock.Now().Add(c.window)
	c.pending[eventID] = armedWindow{
		timer: c.clock.AfterFunc(c.window, func() { c.fire(eventID) }),
		due:   due,
	}
}

func (c *Coalescer) fire(eventID uuid.UUID) {
	c.mu.Lock()
	w, armed := c.pending[eventID]
	if !armed || c.stopped {
		c.mu.Unlock()
		return
	}
	delete(c.pending, eventID)
	folded := c.folded[eventID]
	delete(c.folded, eventID)
	c.mu.Unlock()

	log.Debug().
		Str("event_id", eventID.String()).
		Int("folded", folded).
		Msg("emitting coalesced change")
	c.emit(eventID, w.due)
}

// Pending reports how many events have an armed window.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stop cancels every armed window. Signals after Stop are ignored.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for id, w := range c.pending {
		w.timer.Stop()
		delete(c.pending, id)
	}
	clear(c.folded)
}
