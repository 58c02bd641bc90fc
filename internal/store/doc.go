// Package store provides file-backed persistence for the specialist
// collection and the generated portrait images.
//
// The collection lives in a single JSON document that is always replaced as
// a whole: writes go to a temporary file in the same directory which is then
// renamed over the target, so a crash leaves either the old or the new
// document, never a truncated one. Images are written the same way, and the
// presence of an image file is the idempotency marker for its record.
//
// Two processes writing the same directory at once are not coordinated.
package store
