// Package sync implements the reconciliation engine that converges
// declared products onto the Roblox platform.
//
// For each declared product the reconciler decides between three
// mutations based on the lockfile mapping:
//   - create: no known remote identity exists for the key
//   - update: a remote identity exists and a tracked field changed
//   - skip: nothing changed; no remote call is made
//
// # Change Detection
//
// Scalar fields (name, price, description, offsale) are compared
// directly against the last-synced record. Icons are compared by sha256
// content digest, and tracked independently so an unchanged icon is
// never re-uploaded when only a scalar field moved.
//
// # Rate Limits
//
// Every remote mutation runs through a shared retry machine: HTTP 429
// responses are retried with jittered exponential backoff, bounded by
// Options.MaxRetries; all other failures are terminal immediately.
// Backoff sleeps honor context cancellation, abandoning the remaining
// retries for the one product being processed.
//
// # State Safety
//
// The mapping store only ever records values from successful remote
// calls. A failed product leaves its record exactly as it was, so a
// rerun retries from known-good state. Products are independent: one
// failure never aborts the rest of the run.
package sync
