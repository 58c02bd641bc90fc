package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidFormat is returned when record data is not a JSON object.
	ErrInvalidFormat = errors.New("invalid format")
)
