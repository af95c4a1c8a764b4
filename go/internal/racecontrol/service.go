package racecontrol

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/auth"
)

const (
	GetSnapshotProcedure         = "/racetiming.v1.RaceControlService/GetSnapshot"
	GetRacerHistoryProcedure     = "/racetiming.v1.RaceControlService/GetRacerHistory"
	SetClassCheckpointsProcedure = "/racetiming.v1.RaceControlService/SetClassCheckpoints"
	GetClassCheckpointsProcedure = "/racetiming.v1.RaceControlService/GetClassCheckpoints"
)

type GetSnapshotRequest struct {
	EventID uuid.UUID `json:"event_id"`
}

type GetRacerHistoryRequest struct {
	RacerID uuid.UUID `json:"racer_id"`
}

type SetClassCheckpointsRequest struct {
	ClassID       uuid.UUID   `json:"class_id"`
	CheckpointIDs []uuid.UUID `json:"checkpoint_ids"`
}

type SetClassCheckpointsResponse struct{}

type GetClassCheckpointsRequest struct {
	EventID uuid.UUID `json:"event_id"`
}

type GetClassCheckpointsResponse struct {
	Mapping ClassCheckpoints `json:"mapping"`
}

// RaceControlApp defines what the service layer needs from the race-control application
type RaceControlApp interface {
	Snapshot(ctx context.Context, actor, eventID uuid.UUID) (*Snapshot, error)
	RacerHistory(ctx context.Context, actor, racerID uuid.UUID) (*RacerHistory, error)
	GetClassCheckpoints(ctx context.Context, actor, eventID uuid.UUID) (ClassCheckpoints, error)
	SetClassCheckpoints(ctx context.Context, actor, classID uuid.UUID, checkpointIDs []uuid.UUID) error
}

// Service exposes the organizer console over connect
type Service struct {
	app RaceControlApp
}

// NewService creates a new race-control service
func NewService(app RaceControlApp) *Service {
	return &Service{
		app: app,
	}
}

// RegisterRoutes mounts the service's procedures on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(GetSnapshotProcedure, connect.NewUnaryHandler(GetSnapshotProcedure, s.GetSnapshot, opts...))
	mux.Handle(GetRacerHistoryProcedure, connect.NewUnaryHandler(GetRacerHistoryProcedure, s.GetRacerHistory, opts...))
	mux.Handle(SetClassCheckpointsProcedure, connect.NewUnaryHandler(SetClassCheckpointsProcedure, s.SetClassCheckpoints, opts...))
	mux.Handle(GetClassCheckpointsProcedure, connect.NewUnaryHandler(GetClassCheckpointsProcedure, s.GetClassCheckpoints, opts...))
}

func (s *Service) GetSnapshot(ctx context.Context, req *connect.Request[GetSnapshotRequest]) (*connect.Response[Snapshot], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	snap, err := s.app.Snapshot(ctx, actor, req.Msg.EventID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(snap), nil
}

func (s *Service) GetRacerHistory(ctx context.Context, req *connect.Request[GetRacerHistoryRequest]) (*connect.Response[RacerHistory], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	history, err := s.app.RacerHistory(ctx, actor, req.Msg.RacerID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(history), nil
}

func (s *Service) SetClassCheckpoints(ctx context.Context, req *connect.Request[SetClassCheckpointsRequest]) (*connect.Response[SetClassCheckpointsResponse], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	if err := s.app.SetClassCheckpoints(ctx, actor, req.Msg.ClassID, req.Msg.CheckpointIDs); err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&SetClassCheckpointsResponse{}), nil
}

func (s *Service) GetClassCheckpoints(ctx context.Context, req *connect.Request[GetClassCheckpointsRequest]) (*connect.Response[GetClassCheckpointsResponse], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	mapping, err := s.app.GetClassCheckpoints(ctx, actor, req.Msg.EventID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&GetClassCheckpointsResponse{Mapping: mapping}), nil
}
