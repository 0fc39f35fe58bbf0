package humanizer

import "errors"

// ErrGenerationUnavailable is matched by every GenerationError.
var ErrGenerationUnavailable = errors.New("generation unavailable")

// GenerationError reports that the model could not produce usable text
type GenerationError struct {
	Op    string // "humanize" or "generate"
	Model string
	Cause error
}

func (e *GenerationError) Error() string {
	msg := e.Op + ": " + ErrGenerationUnavailable.Error()
	if e.Model != "" {
		msg += " (model " + e.Model + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrGenerationUnavailable) hold for any GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationUnavailable
}
