package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/specialist-portraits/internal/generation"
)

// MockImageGenerator implements generation.ImageGenerator for testing
type MockImageGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt string) ([]byte, error)

	// Default response values
	Image []byte
	Err   error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Prompts contains all prompts passed to Generate calls
		Prompts []string
	}
}

// Generate implements the generation.ImageGenerator interface
func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	// Track call details for verification
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Prompts = append(m.GenerateCalls.Prompts, prompt)
	m.GenerateCalls.mu.Unlock()

	// Use custom function if provided
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return append([]byte(nil), m.Image...), nil
}

// CallCount returns the number of Generate calls so far
func (m *MockImageGenerator) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// Prompts returns a copy of the prompts received so far
func (m *MockImageGenerator) Prompts() []string {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return append([]string(nil), m.GenerateCalls.Prompts...)
}

// NewMockImageGeneratorWithImage creates a MockImageGenerator that returns image on every call
func NewMockImageGeneratorWithImage(image []byte) *MockImageGenerator {
	return &MockImageGenerator{
		Image: image,
	}
}

// NewMockImageGeneratorWithError creates a MockImageGenerator that returns the specified error
func NewMockImageGeneratorWithError(err error) *MockImageGenerator {
	return &MockImageGenerator{
		Err: err,
	}
}

// MockImageGeneratorThatFails creates a MockImageGenerator that simulates a generation failure
func MockImageGeneratorThatFails() *MockImageGenerator {
	return &MockImageGenerator{
		Err: generation.ErrGenerationFailed,
	}
}

// Reset resets the call tracking state
func (m *MockImageGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.Prompts = nil
}
