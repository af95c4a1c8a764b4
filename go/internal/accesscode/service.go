package accesscode

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
	ValidateCodeProcedure         = "/racetiming.v1.StaffService/ValidateCode"
	RegenerateAccessCodeProcedure = "/racetiming.v1.RaceControlService/RegenerateAccessCode"
)

type ValidateCodeRequest struct {
	Code string `json:"code"`
}

type ValidateCodeResponse struct {
	CodeSession
}

type RegenerateAccessCodeRequest struct {
	CheckpointID uuid.UUID `json:"checkpoint_id"`
}

type RegenerateAccessCodeResponse struct {
	CheckpointID  uuid.UUID `json:"checkpoint_id"`
	AccessCode    string    `json:"access_code"`
	CodeExpiresAt time.Time `json:"code_expires_at"`
}

// AccessCodeApp defines what the service layer needs from the access code application
type AccessCodeApp interface {
	Validate(ctx context.Context, code string) (*CodeSession, error)
	Regenerate(ctx context.Context, actor uuid.UUID, checkpointID uuid.UUID) (*models.Checkpoint, error)
}

// Service exposes access code operations over connect
type Service struct {
	app AccessCodeApp
}

// NewService creates a new access code service
func NewService(app AccessCodeApp) *Service {
	return &Service{
		app: app,
	}
}

// RegisterRoutes mounts the service's procedures on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(ValidateCodeProcedure, connect.NewUnaryHandler(ValidateCodeProcedure, s.ValidateCode, opts...))
	mux.Handle(RegenerateAccessCodeProcedure, connect.NewUnaryHandler(RegenerateAccessCodeProcedure, s.RegenerateAccessCode, opts...))
}

// ValidateCode resolves a staff access code
func (s *Service) ValidateCode(ctx context.Context, req *connect.Request[ValidateCodeRequest]) (*connect.Response[ValidateCodeResponse], error) {
	session, err := s.app.Validate(ctx, req.Msg.Code)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&ValidateCodeResponse{CodeSession: *session}), nil
}

// RegenerateAccessCode issues a new code for a checkpoint
func (s *Service) RegenerateAccessCode(ctx context.Context, req *connect.Request[RegenerateAccessCodeRequest]) (*connect.Response[RegenerateAccessCodeResponse], error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	if req.Msg.CheckpointID == uuid.Nil {
		return nil, apperr.ToConnect(apperr.Validation("checkpoint_id is required"))
	}

	cp, err := s.app.Regenerate(ctx, actor, req.Msg.CheckpointID)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&RegenerateAccessCodeResponse{
		CheckpointID:  cp.ID,
		AccessCode:    cp.AccessCode,
		CodeExpiresAt: cp.CodeExpiresAt,
	}), nil
}
