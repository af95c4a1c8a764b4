package apperr

import (
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{Validation("seconds must be >= 1"), connect.CodeInvalidArgument},
		{ErrNotAuthorized, connect.CodeUnauthenticated},
		{Forbidden("not your event"), connect.CodePermissionDenied},
		{NotFound("timestamp"), connect.CodeNotFound},
		{fmt.Errorf("record: %w", ErrRacerNotFound), connect.CodeNotFound},
		{Conflict("racer already dnf"), connect.CodeAlreadyExists},
		{ErrUndoExpired, connect.CodeFailedPrecondition},
		{errors.New("connection refused"), connect.CodeInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), tt.err.Error())
	}
}

func TestToConnectHidesInternalCause(t *testing.T) {
	err := ToConnect(errors.New("pq: password authentication failed"))

	var connectErr *connect.Error
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, connect.CodeInternal, connectErr.Code())
	assert.NotContains(t, connectErr.Message(), "password")
}

func TestToConnectKeepsBusinessMessage(t *testing.T) {
	err := ToConnect(Validation("reason is required"))

	var connectErr *connect.Error
	require.ErrorAs(t, err, &connectErr)
	assert.Contains(t, connectErr.Message(), "reason is required")
	assert.Nil(t, ToConnect(nil))
}
