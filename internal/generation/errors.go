package generation

import "errors"

// Common errors returned by image generators
var (
	// ErrGenerationFailed is returned when image generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate image")

	// ErrUnexpectedStatus is returned when the service answers with a non-OK status
	ErrUnexpectedStatus = errors.New("unexpected status from image service")

	// ErrNoPredictions is returned when the service reports success but returns no image
	ErrNoPredictions = errors.New("no predictions in image service response")

	// ErrInvalidResponse is returned when the response body cannot be decoded
	ErrInvalidResponse = errors.New("invalid response from image service")

	// ErrTransport is returned for network faults while calling the service
	ErrTransport = errors.New("transport error calling image service")

	// ErrCredentials is returned when a bearer token cannot be obtained
	ErrCredentials = errors.New("failed to obtain credentials")

	// ErrEmptyPrompt is returned when the prompt is empty
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
