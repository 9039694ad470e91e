// Package internal holds cryptographic helpers shared by the engine that are
// too small for a package of their own: OTP code generation.
package internal
