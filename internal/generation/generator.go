package generation

import "context"

// ImageGenerator turns a text prompt into raw image bytes.
type ImageGenerator interface {
	// Generate returns the bytes of a single generated image. Every failure,
	// including transport faults, is reported as an error wrapping one of the
	// sentinels in errors.go; implementations must not panic.
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// GeneratorFunc adapts an ordinary function to the ImageGenerator interface.
type GeneratorFunc func(ctx context.Context, prompt string) ([]byte, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return f(ctx, prompt)
}
