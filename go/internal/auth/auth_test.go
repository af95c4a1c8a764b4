package auth

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	id := uuid.New()
	got, err := ActorFromContext(WithActor(context.Background(), id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestInterceptor(t *testing.T) {
	id := uuid.New()
	var seen uuid.UUID
	var seenErr error

	handler := NewInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen, seenErr = ActorFromContext(ctx)
		return connect.NewResponse(&ping{}), nil
	})

	req := connect.NewRequest(&ping{})
	req.Header().Set(HeaderOrganizerID, id.String())
	_, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, seenErr)
	assert.Equal(t, id, seen)

	_, err = handler(context.Background(), connect.NewRequest(&ping{}))
	require.NoError(t, err)
	assert.ErrorIs(t, seenErr, apperr.ErrNotAuthorized)

	bad := connect.NewRequest(&ping{})
	bad.Header().Set(HeaderOrganizerID, "not-a-uuid")
	_, err = handler(context.Background(), bad)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}
