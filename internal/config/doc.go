// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional config file and command-line flags.
// It provides type-safe access to the settings needed by the image client,
// the prompt builder, the record store and the batch loop, while keeping
// configuration details separate from that logic.
package config
