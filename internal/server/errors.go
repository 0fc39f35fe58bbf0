package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/humanizer/internal/humanizer"
	"github.com/jonathan/humanizer/internal/types"
)

// ErrNotFound indicates a stored resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrRequestTooLarge indicates the request body exceeded the size limit
type ErrRequestTooLarge struct {
	Limit int64
}

func (e *ErrRequestTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound *ErrNotFound
		tooLarge *ErrRequestTooLarge
	)
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, humanizer.ErrGenerationUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the stable machine-readable code for an error
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	case http.StatusTooManyRequests:
		return "rate_limit_exceeded"
	case http.StatusBadGateway:
		return "generation_unavailable"
	default:
		return "internal_error"
	}
}

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// newErrorBody builds the client-facing error. Generation and internal
// failures are described generically; their causes go to the log.
func newErrorBody(status int, err error) errorBody {
	body := errorBody{Error: errorCode(status), Message: err.Error()}

	var vErr *types.ValidationError
	if errors.As(err, &vErr) {
		body.Field = vErr.Field
	}

	switch status {
	case http.StatusBadGateway:
		body.Message = "text generation is currently unavailable, please try again"
	case http.StatusInternalServerError:
		body.Message = "internal server error"
	}
	return body
}
