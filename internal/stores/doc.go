// Package stores provides the transient challenge store (OTP values and
// request counters) in two interchangeable backends, plus the credential
// store contract with an in-process reference implementation.
//
// # Design
//
// OTP values and request counters live in distinct key namespaces so the
// counter's window expiry never interferes with a code's TTL. Counters use
// fixed-window semantics: atomic increment, with the window expiry set
// exactly once on the first hit. The Redis backend gets this from INCR +
// conditional EXPIRE; the memory backend holds a mutex across the
// check-reset-increment sequence.
//
// # Architecture boundaries
//
// This package owns persistence and per-key atomicity. It does NOT generate
// codes, enforce the request budget, or make authentication decisions —
// those belong to the engine.
//
// # What this package must NOT do
//
//   - Import the root package or any sibling internal package.
//   - Retry failed backend calls or fall back to another backend.
//   - Log OTP codes.
package stores
