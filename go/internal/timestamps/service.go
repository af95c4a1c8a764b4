package timestamps

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/auth"
)

const (
	RecordTimestampProcedure = "/racetiming.v1.StaffService/RecordTimestamp"
	UndoTimestampProcedure   = "/racetiming.v1.StaffService/UndoTimestamp"
)

type RecordTimestampRequest struct {
	CheckpointID uuid.UUID `json:"checkpoint_id"`
	RacerNumber  int       `json:"racer_number"`
}

type RecordTimestampResponse struct {
	Outcome
}

type UndoTimestampRequest struct {
	TimestampID uuid.UUID `json:"timestamp_id"`
}

type UndoTimestampResponse struct {
	Deleted bool `json:"deleted"`
}

// TimestampApp defines what the service layer needs from the timestamp application
type TimestampApp interface {
	Record(ctx context.Context, req RecordRequest) (*Outcome, error)
	Undo(ctx context.Context, timestampID uuid.UUID) error
}

// Service exposes the staff punch operations over connect
type Service struct {
	app TimestampApp
}

// NewService creates a new timestamp service
func NewService(app TimestampApp) *Service {
	return &Service{
		app: app,
	}
}

// RegisterRoutes mounts the service's procedures on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(RecordTimestampProcedure, connect.NewUnaryHandler(RecordTimestampProcedure, s.RecordTimestamp, opts...))
	mux.Handle(UndoTimestampProcedure, connect.NewUnaryHandler(UndoTimestampProcedure, s.UndoTimestamp, opts...))
}

// RecordTimestamp punches a racer through a checkpoint
func (s *Service) RecordTimestamp(ctx context.Context, req *connect.Request[RecordTimestampRequest]) (*connect.Response[RecordTimestampResponse], error) {
	var recordedBy *uuid.UUID
	if actor, err := auth.ActorFromContext(ctx); err == nil {
		recordedBy = &actor
	}

	outcome, err := s.app.Record(ctx, RecordRequest{
		CheckpointID: req.Msg.CheckpointID,
		RacerNumber:  req.Msg.RacerNumber,
		RecordedBy:   recordedBy,
	})
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&RecordTimestampResponse{Outcome: *outcome}), nil
}

// UndoTimestamp takes back a punch inside the undo window
func (s *Service) UndoTimestamp(ctx context.Context, req *connect.Request[UndoTimestampRequest]) (*connect.Response[UndoTimestampResponse], error) {
	if err := s.app.Undo(ctx, req.Msg.TimestampID); err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&UndoTimestampResponse{Deleted: true}), nil
}
