// Package password implements password hashing and verification with
// Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Each Hash call draws a fresh random salt. Verify recomputes the key with
// the parameters embedded in the stored string, so parameter changes never
// invalidate existing hashes; NeedsUpgrade reports when a stored hash was
// produced with weaker parameters than the active configuration.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive
//     hashes.
//   - Import any other bonsai-auth package.
//   - Log plaintext passwords.
package password
