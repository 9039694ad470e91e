package bonsaiauth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ephemeralProofSecretSize = 32

var errProofInvalid = errors.New("invalid credential proof")

// proofManager mints the opaque credential proof Login returns: a short-lived
// HS256 token with the identity as subject. No sessions, no refresh — the
// proof only attests that authentication succeeded.
type proofManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func newProofManager(cfg ProofConfig) (*proofManager, error) {
	secret := cfg.Secret
	if len(secret) == 0 {
		// Ephemeral secret: proofs are verifiable only within this process.
		secret = make([]byte, ephemeralProofSecretSize)
		if _, err := io.ReadFull(rand.Reader, secret); err != nil {
			return nil, fmt.Errorf("proof secret generation: %w", err)
		}
	}

	return &proofManager{
		secret: secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
	}, nil
}

func (m *proofManager) Issue(identity string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		ID:        uuid.NewString(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *proofManager) Verify(proof string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		proof,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", errProofInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errProofInvalid
	}
	return claims.Subject, nil
}

// VerifyProof checks a proof returned by [Engine.Login] and returns the
// authenticated identity. Expired, tampered, or foreign proofs fail.
func (e *Engine) VerifyProof(proof string) (string, error) {
	if e == nil || e.proof == nil {
		return "", ErrEngineNotReady
	}
	return e.proof.Verify(proof)
}
