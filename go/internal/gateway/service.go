package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Service pushes recompute frames to websocket clients whenever an event's
// race data changes.
type Service struct {
	connectionManager *ConnectionManager
	coalescer         *Coalescer
	wsHandler         *WebSocketHandler
	eventConsumer     *EventConsumer
}

type Config struct {
	ConnectionConfig ConnectionConfig
	JetStreamConfig  JetStreamConsumerConfig
	CoalesceWindow   time.Duration
}

func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConsumerConfig(),
		CoalesceWindow:   DefaultCoalesceWindow,
	}
}

// newHub wires the coalescer to the connection manager without a bus.
func newHub(config Config, clock clockwork.Clock) *Service {
	cm := NewConnectionManager(config.ConnectionConfig)
	coalescer := NewCoalescer(clock, config.CoalesceWindow, func(eventID uuid.UUID, at time.Time) {
		cm.BroadcastToEvent(eventID, recomputeFrame(eventID, at))
	})
	return &Service{
		connectionManager: cm,
		coalescer:         coalescer,
		wsHandler:         NewWebSocketHandler(cm),
	}
}

func NewService(ctx context.Context, config Config, clock clockwork.Clock) (*Service, error) {
	s := newHub(config, clock)

	consumer, err := NewEventConsumer(ctx, s.coalescer, config.JetStreamConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}
	s.eventConsumer = consumer
	return s, nil
}

// Start runs until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting race gateway service")

	go s.connectionManager.Start(ctx)

	if s.eventConsumer != nil {
		go func() {
			if err := s.eventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("race gateway service shutting down")
	return s.Stop()
}

func (s *Service) Stop() error {
	s.coalescer.Stop()
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	}
	log.Info().Msg("race gateway service stopped")
	return nil
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	mux.HandleFunc("/health", s.handleHealth)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.eventConsumer != nil && !s.eventConsumer.Connected() {
		http.Error(w, "NATS disconnected", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Stats reports the current connection counts.
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
