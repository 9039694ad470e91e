// Package bonsaiauth provides a credential/OTP authentication engine with
// interchangeable password and one-time-passcode login paths, Redis-backed
// challenge storage with an in-process fallback, and fixed-window rate
// limiting on OTP issuance.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// bonsaiauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginRequest, RequestOTPResult, MetricsSnapshot). Internal
// coordination — challenge persistence, audit dispatch, OTP generation —
// lives under internal/ and is never exported.
//
// Backend selection is a construction-time decision: when [Builder.WithRedis]
// supplies a client the challenge store is Redis, otherwise an in-process
// concurrent map. The choice is made exactly once at Build and never
// re-evaluated per call.
//
// # What this package must NOT do
//
//   - Expose Redis clients or store internals in its public API.
//   - Issue sessions or refresh tokens. Login returns a short-lived
//     credential proof and nothing else.
//   - Route HTTP, send email, or read process configuration. Those are the
//     caller's collaborators behind the [CredentialStore] and [Notifier]
//     ports.
package bonsaiauth
