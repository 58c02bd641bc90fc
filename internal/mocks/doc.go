// Package mocks provides shared test doubles.
//
// MockImageGenerator stands in for the Imagen client in orchestrator and
// command tests. It records every prompt it receives and can be scripted
// per call:
//
//	gen := mocks.NewMockImageGeneratorWithImage([]byte("jpeg"))
//	gen.GenerateFn = func(ctx context.Context, prompt string) ([]byte, error) {
//	    if strings.Contains(prompt, "therapist") {
//	        return nil, generation.ErrNoPredictions
//	    }
//	    return []byte("jpeg"), nil
//	}
package mocks
