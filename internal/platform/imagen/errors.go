package imagen

import (
	"fmt"

	"github.com/phrazzld/specialist-portraits/internal/generation"
)

// StatusError is returned when the service answers with a non-OK status.
type StatusError struct {
	Code int
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d - %s", generation.ErrUnexpectedStatus, e.Code, e.Body)
}

// Unwrap lets errors.Is match generation.ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return generation.ErrUnexpectedStatus
}
