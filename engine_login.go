package bonsaiauth

import (
	"context"
	"crypto/subtle"
)

// Login verifies exactly one credential and returns a credential proof. The
// password path takes precedence: when both credentials are present the OTP
// is never consulted, so a valid password with a garbage OTP still succeeds.
// A matching OTP is deleted before the proof is issued — each code verifies
// at most once.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if e == nil || e.credentials == nil || e.challenges == nil || e.proof == nil {
		return nil, ErrEngineNotReady
	}

	hash, err := e.credentials.GetPasswordHash(ctx, req.Identity)
	if err != nil {
		if credentialAbsent(err) {
			e.emitAudit(ctx, auditEventLogin, req.Identity, false, ErrUnknownUser, nil)
			return nil, ErrUnknownUser
		}
		mapped := mapCredentialError(err)
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, auditEventLogin, req.Identity, false, mapped, nil)
		return nil, mapped
	}

	switch {
	case req.Password != "":
		ok, err := e.passwordHash.Verify(req.Password, hash)
		if err != nil {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLogin, req.Identity, false, err, nil)
			return nil, err
		}
		if !ok {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLogin, req.Identity, false, ErrInvalidPassword, nil)
			return nil, ErrInvalidPassword
		}
		return e.issueProof(ctx, req.Identity, "password")

	case req.OTP != "":
		code, err := e.challenges.GetOTP(ctx, req.Identity)
		if err != nil {
			if challengeAbsent(err) {
				e.metricInc(MetricLoginFailure)
				e.emitAudit(ctx, auditEventLogin, req.Identity, false, ErrInvalidOTP, nil)
				return nil, ErrInvalidOTP
			}
			mapped := mapChallengeError(err)
			e.metricInc(MetricStoreFailure)
			e.emitAudit(ctx, auditEventLogin, req.Identity, false, mapped, nil)
			return nil, mapped
		}

		if subtle.ConstantTimeCompare([]byte(code), []byte(req.OTP)) != 1 {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLogin, req.Identity, false, ErrInvalidOTP, nil)
			return nil, ErrInvalidOTP
		}

		// Single-use: the code is gone before the proof exists.
		if err := e.challenges.DeleteOTP(ctx, req.Identity); err != nil {
			mapped := mapChallengeError(err)
			e.metricInc(MetricStoreFailure)
			e.emitAudit(ctx, auditEventLogin, req.Identity, false, mapped, nil)
			return nil, mapped
		}
		return e.issueProof(ctx, req.Identity, "otp")

	default:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLogin, req.Identity, false, ErrMissingCredentials, nil)
		return nil, ErrMissingCredentials
	}
}

func (e *Engine) issueProof(ctx context.Context, identity, method string) (*LoginResult, error) {
	proof, err := e.proof.Issue(identity)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLogin, identity, false, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLogin, identity, true, nil, func() map[string]string {
		return map[string]string{
			"method": method,
		}
	})
	return &LoginResult{Proof: proof}, nil
}
