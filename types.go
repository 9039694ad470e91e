package bonsaiauth

import (
	"io"

	internalnotify "github.com/Alex03Immanuel/bonsai-auth/internal/notify"
	"github.com/Alex03Immanuel/bonsai-auth/internal/stores"
)

// CredentialStore is the durable identity → password-hash mapping the engine
// consults. Callers integrating a real user database implement this; the
// in-process reference implementation is the default. Create does not enforce
// uniqueness — the engine performs the existence check, and two racing
// registrations resolve as last-writer-wins with exactly one hash retrievable
// afterwards.
type CredentialStore = stores.CredentialStore

// NewMemoryCredentialStore returns the concurrent in-process reference
// implementation of [CredentialStore].
func NewMemoryCredentialStore() *stores.MemoryCredentialStore {
	return stores.NewMemoryCredentialStore()
}

// Notifier is the one-way delivery port for OTP codes. The engine awaits
// SendOTP before replying but treats failures as best-effort unless
// [OTPConfig.DeliveryFailureFatal] is set.
type Notifier = internalnotify.Notifier

// NoOpNotifier discards deliveries.
type NoOpNotifier = internalnotify.NoOpNotifier

// Delivery is the record produced by [WriterNotifier] and [ChannelNotifier].
type Delivery = internalnotify.Delivery

// WriterNotifier writes one JSON delivery per line to an [io.Writer].
type WriterNotifier = internalnotify.WriterNotifier

// NewWriterNotifier creates a [WriterNotifier] that writes to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return internalnotify.NewWriterNotifier(w)
}

// ChannelNotifier pushes deliveries into a buffered channel.
type ChannelNotifier = internalnotify.ChannelNotifier

// NewChannelNotifier creates a [ChannelNotifier] with the given buffer.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	return internalnotify.NewChannelNotifier(buffer)
}

// SMTPConfig configures [NewSMTPNotifier].
type SMTPConfig = internalnotify.SMTPConfig

// SMTPNotifier delivers codes over SMTP, using the identity as recipient.
type SMTPNotifier = internalnotify.SMTPNotifier

// NewSMTPNotifier creates an [SMTPNotifier] from transport settings.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	return internalnotify.NewSMTPNotifier(cfg)
}

// LoginRequest carries the credentials for [Engine.Login]. Exactly one of
// Password/OTP is expected; when both are present the password path wins and
// the OTP is ignored entirely.
type LoginRequest struct {
	Identity string
	Password string
	OTP      string
}

// LoginResult is returned by [Engine.Login] on success.
type LoginResult struct {
	// Proof is an opaque short-lived credential proof. It is not a session
	// token; see [Engine.VerifyProof].
	Proof string
}

// RequestOTPResult is returned by [Engine.RequestOTP] on success.
type RequestOTPResult struct {
	// Remaining is the number of requests left in the current window.
	Remaining int64
}
