package ranking

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/kpcrmv4/AProject/go/internal/auth"
)

const (
	GetRankingsProcedure = "/racetiming.v1.RankingService/GetRankings"
	GetResultsProcedure  = "/racetiming.v1.RankingService/GetResults"
)

type GetRankingsRequest struct {
	EventID uuid.UUID  `json:"event_id"`
	ClassID *uuid.UUID `json:"class_id,omitempty"`
}

type GetRankingsResponse struct {
	Rankings []RankedRacer `json:"rankings"`
}

type GetResultsRequest struct {
	Slug    string     `json:"slug"`
	ClassID *uuid.UUID `json:"class_id,omitempty"`
}

// RankingApp defines what the service layer needs from the ranking application
type RankingApp interface {
	GetRankings(ctx context.Context, viewer uuid.UUID, eventID uuid.UUID, classID *uuid.UUID) ([]RankedRacer, error)
	GetResults(ctx context.Context, slug string, classID *uuid.UUID) (*Results, error)
}

// Service exposes leaderboards over connect
type Service struct {
	app RankingApp
}

// NewService creates a new ranking service
func NewService(app RankingApp) *Service {
	return &Service{
		app: app,
	}
}

// RegisterRoutes mounts the service's procedures on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(GetRankingsProcedure, connect.NewUnaryHandler(GetRankingsProcedure, s.GetRankings, opts...))
	mux.Handle(GetResultsProcedure, connect.NewUnaryHandler(GetResultsProcedure, s.GetResults, opts...))
}

// GetRankings returns the leaderboard of an event. Anonymous callers see
// published events only.
func (s *Service) GetRankings(ctx context.Context, req *connect.Request[GetRankingsRequest]) (*connect.Response[GetRankingsResponse], error) {
	viewer, _ := auth.ActorFromContext(ctx)
	rankings, err := s.app.GetRankings(ctx, viewer, req.Msg.EventID, req.Msg.ClassID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&GetRankingsResponse{Rankings: rankings}), nil
}

// GetResults returns the public results page data
func (s *Service) GetResults(ctx context.Context, req *connect.Request[GetResultsRequest]) (*connect.Response[Results], error) {
	results, err := s.app.GetResults(ctx, req.Msg.Slug, req.Msg.ClassID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(results), nil
}
