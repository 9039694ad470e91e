package bonsaiauth

import "context"

// Register creates a credential record for identity. An existing record
// fails with [ErrUserExists]. The existence check and the create are not one
// atomic step: two concurrent registrations for the same identity may both
// pass the check, in which case the later create wins and exactly one hash
// remains retrievable.
func (e *Engine) Register(ctx context.Context, identity, pass string) error {
	if e == nil || e.credentials == nil || e.passwordHash == nil {
		return ErrEngineNotReady
	}
	if identity == "" || pass == "" {
		e.emitAudit(ctx, auditEventRegister, identity, false, ErrMissingCredentials, nil)
		return ErrMissingCredentials
	}

	exists, err := e.credentials.Exists(ctx, identity)
	if err != nil {
		mapped := mapCredentialError(err)
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, auditEventRegister, identity, false, mapped, nil)
		return mapped
	}
	if exists {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegister, identity, false, ErrUserExists, nil)
		return ErrUserExists
	}

	hash, err := e.passwordHash.Hash(pass)
	if err != nil {
		e.emitAudit(ctx, auditEventRegister, identity, false, err, nil)
		return err
	}

	if err := e.credentials.Create(ctx, identity, hash); err != nil {
		mapped := mapCredentialError(err)
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, auditEventRegister, identity, false, mapped, nil)
		return mapped
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, identity, true, nil, nil)
	return nil
}
