package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrEmptyResponse is wrapped when a provider answers without usable text.
var ErrEmptyResponse = errors.New("no usable text in response")

// APIError represents a failed call to a generation provider
type APIError struct {
	Provider   Provider
	StatusCode int // 0 when the failure happened before an HTTP response
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s API error", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// httpCoder is implemented by googleapis' apierror.APIError.
type httpCoder interface {
	HTTPCode() int
}

// statusCode digs an HTTP status out of a provider error, or returns 0.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var hc httpCoder
	if errors.As(err, &hc) {
		return hc.HTTPCode()
	}
	return 0
}

// IsTransient reports whether err is worth retrying: request timeouts, rate
// limiting, server errors and network timeouts. Context cancellation and
// deadlines are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return transientStatus(apiErr.StatusCode)
	}
	if code := statusCode(err); code != 0 {
		return transientStatus(code)
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func transientStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}
