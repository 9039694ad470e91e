// Package notify defines the one-way delivery port for OTP codes and the
// shipped transports: a no-op, a JSON line writer (console delivery), a
// channel (tests), and SMTP.
//
// # Delivery contract
//
// The engine awaits SendOTP before replying but treats delivery as
// best-effort: a transport error is audited, not surfaced, unless the engine
// is configured otherwise. Transports must honor ctx cancellation.
//
// # What this package must NOT do
//
//   - Store codes or retry deliveries.
//   - Import the root package or any sibling internal package.
package notify
