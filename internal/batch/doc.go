// Package batch drives the portrait generation loop.
//
// An Orchestrator loads the specialist collection, walks it in document
// order, and for each record either skips it (its image already exists on
// disk), generates and stores a new portrait, or records a failure. Between
// fixed-size groups of records it pauses for a configured delay. The updated
// collection is saved exactly once at the end of the run, including when the
// run is interrupted through its context.
//
// Processing is strictly sequential. Two runs against the same images
// directory at the same time are not supported.
package batch
