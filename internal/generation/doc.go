// Package generation defines the boundary between the batch orchestrator and
// the remote image-generation service. It holds the ImageGenerator interface
// and the sentinel errors that implementations wrap, so callers can classify
// a failure without knowing which transport produced it.
package generation
