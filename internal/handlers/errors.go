package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/commonground/community-events-api/internal/service"
)

// ErrorEnvelope is the uniform error body: {"success": false, "message": ...}.
type ErrorEnvelope struct {
	status  int
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e *ErrorEnvelope) Error() string {
	return e.Message
}

func (e *ErrorEnvelope) GetStatus() int {
	return e.status
}

// ContentType keeps error responses as plain application/json instead of
// huma's default problem+json.
func (e *ErrorEnvelope) ContentType(string) string {
	return "application/json"
}

func init() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		return &ErrorEnvelope{status: status, Message: message}
	}
}

// serviceError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal failure and is logged rather than leaked.
func serviceError(err error) error {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var notFoundErr *service.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		return huma.Error400BadRequest(validationErr.Message)
	case errors.As(err, &conflictErr):
		return huma.Error400BadRequest(conflictErr.Message)
	case errors.As(err, &notFoundErr):
		return huma.Error404NotFound(notFoundErr.Message)
	default:
		log.Error().Err(err).Msg("Unexpected service error")
		return huma.Error500InternalServerError("Internal server error")
	}
}
