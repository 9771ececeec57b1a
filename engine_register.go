package credlock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Register creates a new identity and auto-issues a credential pair for it.
// Duplicate emails fail with [ErrEmailTaken]; malformed input with
// [ErrValidation]; weak passwords with [ErrPasswordPolicy].
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if !e.config.Account.Enabled {
		return nil, ErrValidation
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrValidation, nil)
		return nil, ErrValidation
	}
	if req.Password == "" {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrPasswordPolicy, nil)
		return nil, ErrPasswordPolicy
	}

	role := req.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}

	hash, err := e.passwords.Hash(req.Password)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrPasswordPolicy, nil)
		return nil, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
	}

	rec := UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := e.userStore.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrEmailTaken, nil)
			return nil, ErrEmailTaken
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrPersistence, nil)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	pair, err := e.issueTokens(ctx, rec)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, rec.ID, email, err, nil)
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, rec.ID, email, nil, func() map[string]string {
		return map[string]string{"role": role}
	})

	return &RegisterResult{
		UserID: rec.ID,
		Role:   role,
		Tokens: *pair,
	}, nil
}
