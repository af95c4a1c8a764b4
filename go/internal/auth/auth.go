// Package auth carries the organizer identity established by the upstream
// session layer into app calls.
package auth

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
)

// HeaderOrganizerID is set by the session layer in front of the API.
const HeaderOrganizerID = "X-Organizer-Id"

type actorKey struct{}

// WithActor returns a context carrying the organizer id.
func WithActor(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, adminID)
}

// ActorFromContext returns the organizer id or apperr.ErrNotAuthorized.
func ActorFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: organizer sign-in required", apperr.ErrNotAuthorized)
	}
	return id, nil
}

// NewInterceptor reads HeaderOrganizerID on every unary call. Requests
// without the header pass through anonymously; a malformed value is rejected.
func NewInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			raw := req.Header().Get(HeaderOrganizerID)
			if raw == "" {
				return next(ctx, req)
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("malformed organizer id"))
			}
			return next(WithActor(ctx, id), req)
		}
	}
}
