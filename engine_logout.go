package credlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/credlock/credlock/revocation"
)

// Logout invalidates a session: it revokes both presented credentials for
// their remaining lifetimes and clears the stored refresh credential. Both
// credentials are required, must be valid, and must belong to the same
// identity.
func (e *Engine) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if accessToken == "" || refreshToken == "" {
		return ErrValidation
	}

	claims, err := e.jwtManager.ParseAccess(accessToken)
	if err != nil {
		e.emitAudit(ctx, auditEventLogoutFailure, false, "", "", ErrTokenInvalid, nil)
		return ErrTokenInvalid
	}

	rec, err := e.userStore.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.emitAudit(ctx, auditEventLogoutFailure, false, claims.UID, claims.Email, ErrTokenInvalid, nil)
			return ErrTokenInvalid
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if rec.ID != claims.UID {
		// The pair spans two identities; revoking either would let one
		// caller invalidate another's session.
		e.emitAudit(ctx, auditEventLogoutFailure, false, claims.UID, claims.Email, ErrTokenInvalid, nil)
		return ErrTokenInvalid
	}

	if err := e.ledger.Revoke(ctx, accessToken, revocation.KindAccess, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	e.metricInc(MetricRevocationWrite)

	if rec.RefreshTokenExpiry != nil {
		if err := e.ledger.Revoke(ctx, refreshToken, revocation.KindRefresh, *rec.RefreshTokenExpiry); err != nil {
			return fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
		}
		e.metricInc(MetricRevocationWrite)
	}

	rec.RefreshToken = ""
	rec.RefreshTokenExpiry = nil
	if err := e.userStore.Save(ctx, rec); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogoutSuccess, true, rec.ID, rec.Email, nil, nil)
	return nil
}
