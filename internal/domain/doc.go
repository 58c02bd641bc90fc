// Package domain defines the specialist record, the document that holds the
// collection, and the deterministic filename used as the idempotency marker
// for generated portraits.
package domain
