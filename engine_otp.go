package bonsaiauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Alex03Immanuel/bonsai-auth/internal"
	"github.com/Alex03Immanuel/bonsai-auth/internal/stores"
)

// RequestOTP issues a fresh 6-digit challenge for a registered identity and
// hands it to the notifier. A new challenge overwrites any live one —
// single-active-challenge-per-identity is intentional. The counter is
// incremented before the budget check, so a rejected request still consumes
// window budget and [RateLimitError.Count] reports it.
//
// Delivery is awaited but best-effort: the challenge is stored either way,
// so notifier failures are audited and counted without failing the request
// unless [OTPConfig.DeliveryFailureFatal] is set.
func (e *Engine) RequestOTP(ctx context.Context, identity string) (*RequestOTPResult, error) {
	if e == nil || e.credentials == nil || e.challenges == nil {
		return nil, ErrEngineNotReady
	}

	exists, err := e.credentials.Exists(ctx, identity)
	if err != nil {
		mapped := mapCredentialError(err)
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, auditEventOTPRequest, identity, false, mapped, nil)
		return nil, mapped
	}
	if !exists {
		e.emitAudit(ctx, auditEventOTPRequest, identity, false, ErrUnknownUser, nil)
		return nil, ErrUnknownUser
	}

	count, err := e.challenges.IncrRequestCount(ctx, identity, e.config.RateLimit.Window)
	if err != nil {
		mapped := mapChallengeError(err)
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, auditEventOTPRequest, identity, false, mapped, nil)
		return nil, mapped
	}
	if count > e.config.RateLimit.MaxRequests {
		limitErr := &RateLimitError{Count: count}
		e.metricInc(MetricOTPRateLimited)
		e.emitAudit(ctx, auditEventOTPRequest, identity, false, limitErr, nil)
		e.emitAudit(ctx, auditEventRateLimitTriggered, identity, false, nil, func() map[string]string {
			return map[string]string{
				"count": strconv.FormatInt(count, 10),
			}
		})
		return nil, limitErr
	}

	code, err := internal.NewOTP()
	if err != nil {
		e.emitAudit(ctx, auditEventOTPRequest, identity, false, err, nil)
		return nil, err
	}

	if err := e.challenges.SetOTP(ctx, identity, code, e.config.OTP.TTL); err != nil {
		mapped := mapChallengeError(err)
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, auditEventOTPRequest, identity, false, mapped, nil)
		return nil, mapped
	}

	e.metricInc(MetricOTPIssued)

	if err := e.notifier.SendOTP(ctx, identity, code); err != nil {
		e.metricInc(MetricOTPDeliveryFailure)
		e.emitAudit(ctx, auditEventOTPRequest, identity, !e.config.OTP.DeliveryFailureFatal, err, func() map[string]string {
			return map[string]string{
				"reason": "delivery_failed",
			}
		})
		if e.config.OTP.DeliveryFailureFatal {
			return nil, fmt.Errorf("otp delivery: %w", err)
		}
		return &RequestOTPResult{Remaining: e.config.RateLimit.MaxRequests - count}, nil
	}

	e.emitAudit(ctx, auditEventOTPRequest, identity, true, nil, nil)
	return &RequestOTPResult{Remaining: e.config.RateLimit.MaxRequests - count}, nil
}

// challengeAbsent reports whether err only means no live challenge exists.
func challengeAbsent(err error) bool {
	return errors.Is(err, stores.ErrChallengeNotFound)
}
