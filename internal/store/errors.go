package store

import "errors"

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when the specialist document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidDocument is returned when the document cannot be parsed.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrWriteFailed is returned when a document or image cannot be persisted.
	ErrWriteFailed = errors.New("write failed")

	// ErrInvalidFilename is returned when an image filename would escape the
	// images directory.
	ErrInvalidFilename = errors.New("invalid image filename")
)
