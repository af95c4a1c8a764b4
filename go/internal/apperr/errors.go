// Package apperr defines the business error taxonomy shared by the race
// timing apps and its mapping onto connect status codes.
package apperr

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotAuthorized = errors.New("not authorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrRacerNotFound = errors.New("racer not found")
	ErrConflict      = errors.New("conflict")
	ErrUndoExpired   = errors.New("undo window expired")
)

// Validation wraps ErrValidation with a human-readable message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound naming the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// Forbidden wraps ErrForbidden with a message.
func Forbidden(msg string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, msg)
}

// Conflict wraps ErrConflict with a message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// Code maps err onto a connect code. Anything outside the taxonomy is internal.
func Code(err error) connect.Code {
	switch {
	case errors.Is(err, ErrValidation):
		return connect.CodeInvalidArgument
	case errors.Is(err, ErrNotAuthorized):
		return connect.CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return connect.CodePermissionDenied
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRacerNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ErrConflict):
		return connect.CodeAlreadyExists
	case errors.Is(err, ErrUndoExpired):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

// ToConnect converts an app error into a connect error. Internal failures are
// logged with their cause and surfaced without store details.
func ToConnect(err error) error {
	if err == nil {
		return nil
	}
	code := Code(err)
	if code == connect.CodeInternal {
		log.Error().Err(err).Msg("internal error")
		return connect.NewError(code, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}
