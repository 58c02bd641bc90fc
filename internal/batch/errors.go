package batch

import "errors"

var (
	// ErrRecordPanic is recorded when processing a single record panicked.
	ErrRecordPanic = errors.New("record processing panicked")

	// ErrInvalidName is recorded for a record whose name is present but is
	// not a string. Such records would all share the default filename.
	ErrInvalidName = errors.New("invalid specialist name")

	// ErrImageLookup indicates the existence check for an image failed.
	ErrImageLookup = errors.New("failed to check for existing image")

	// ErrImageWrite indicates a generated image could not be stored.
	ErrImageWrite = errors.New("failed to write image")

	// ErrInterrupted is set on the result of every record the run never
	// reached because its context ended.
	ErrInterrupted = errors.New("batch interrupted")
)
