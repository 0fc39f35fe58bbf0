package types

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every request validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError reports a request field outside its allowed domain.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Is lets callers test with errors.Is(err, ErrInvalidArgument).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}
