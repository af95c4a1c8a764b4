package adjudication

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/auth"
	"github.com/kpcrmv4/AProject/go/internal/models"
)

const (
	AddPenaltyProcedure    = "/racetiming.v1.AdjudicationService/AddPenalty"
	MarkDnfProcedure       = "/racetiming.v1.AdjudicationService/MarkDnf"
	EditTimestampProcedure = "/racetiming.v1.AdjudicationService/EditTimestamp"
	ListAuditLogProcedure  = "/racetiming.v1.AdjudicationService/ListAuditLog"
)

type AddPenaltyMessage struct {
	RacerID uuid.UUID `json:"racer_id"`
	Seconds int       `json:"seconds"`
	Reason  string    `json:"reason"`
}

type MarkDnfMessage struct {
	RacerID      uuid.UUID  `json:"racer_id"`
	CheckpointID *uuid.UUID `json:"checkpoint_id,omitempty"`
	Reason       string     `json:"reason"`
}

type EditTimestampMessage struct {
	TimestampID uuid.UUID `json:"timestamp_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Reason      string    `json:"reason"`
}

type ListAuditLogRequest struct {
	EventID uuid.UUID `json:"event_id"`
}

type ListAuditLogResponse struct {
	Entries []models.AuditLogEntry `json:"entries"`
}

// LedgerApp defines what the service layer needs from the adjudication application
type LedgerApp interface {
	AddPenalty(ctx context.Context, actor uuid.UUID, req AddPenaltyRequest) (*models.Penalty, error)
	MarkDnf(ctx context.Context, actor uuid.UUID, req MarkDnfRequest) (*models.DnfRecord, error)
	EditTimestamp(ctx context.Context, actor uuid.UUID, req EditTimestampRequest) (*models.Timestamp, error)
	ListAudit(ctx context.Context, actor uuid.UUID, eventID uuid.UUID) ([]models.AuditLogEntry, error)
}

// Service exposes the adjudication ledger over connect. Every procedure
// requires an organizer.
type Service struct {
	app LedgerApp
}

// NewService creates a new adjudication service
func NewService(app LedgerApp) *Service {
	return &Service{
		app: app,
	}
}

// RegisterRoutes mounts the service's procedures on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(AddPenaltyProcedure, connect.NewUnaryHandler(AddPenaltyProcedure, s.AddPenalty, opts...))
	mux.Handle(MarkDnfProcedure, connect.NewUnaryHandler(MarkDnfProcedure, s.MarkDnf, opts...))
	mux.Handle(EditTimestampProcedure, connect.NewUnaryHandler(EditTimestampProcedure, s.EditTimestamp, opts...))
	mux.Handle(ListAuditLogProcedure, connect.NewUnaryHandler(ListAuditLogProcedure, s.ListAuditLog, opts...))
}

// AddPenalty appends a time penalty
func (s *Service) AddPenalty(ctx context.Context, req *connect.Request[AddPenaltyMessage]) (*connect.Response[models.Penalty], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	penalty, err := s.app.AddPenalty(ctx, actor, AddPenaltyRequest{
		RacerID: req.Msg.RacerID,
		Seconds: req.Msg.Seconds,
		Reason:  req.Msg.Reason,
	})
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(penalty), nil
}

// MarkDnf declares a racer did-not-finish
func (s *Service) MarkDnf(ctx context.Context, req *connect.Request[MarkDnfMessage]) (*connect.Response[models.DnfRecord], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	dnf, err := s.app.MarkDnf(ctx, actor, MarkDnfRequest{
		RacerID:      req.Msg.RacerID,
		CheckpointID: req.Msg.CheckpointID,
		Reason:       req.Msg.Reason,
	})
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(dnf), nil
}

// EditTimestamp corrects a recorded passage time
func (s *Service) EditTimestamp(ctx context.Context, req *connect.Request[EditTimestampMessage]) (*connect.Response[models.Timestamp], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	ts, err := s.app.EditTimestamp(ctx, actor, EditTimestampRequest{
		TimestampID: req.Msg.TimestampID,
		RecordedAt:  req.Msg.RecordedAt,
		Reason:      req.Msg.Reason,
	})
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(ts), nil
}

// ListAuditLog returns an event's audit trail
func (s *Service) ListAuditLog(ctx context.Context, req *connect.Request[ListAuditLogRequest]) (*connect.Response[ListAuditLogResponse], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	entries, err := s.app.ListAudit(ctx, actor, req.Msg.EventID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&ListAuditLogResponse{Entries: entries}), nil
}
