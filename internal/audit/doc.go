// Package audit provides the event model and sink implementations for the
// engine's audit stream.
//
// # Design
//
// Events are emitted by the engine for every operation outcome and forwarded
// asynchronously by the root dispatcher. Sinks must be safe for concurrent
// Emit calls.
//
// # What this package must NOT do
//
//   - Import the root package or any sibling internal package.
//   - Block Emit indefinitely: honor ctx cancellation.
//   - Carry secrets (passwords, OTP codes, hashes) in events.
package audit
