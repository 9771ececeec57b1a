package credlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/credlock/credlock/revocation"
)

// Refresh exchanges a refresh credential for a fresh access credential.
// Unknown, expired, and revoked refresh credentials all fail with
// [ErrRefreshInvalid]. The same refresh credential is returned unless
// [TokenConfig.RotateRefreshOnUse] is set, in which case a new one is issued
// and the presented one is revoked for its remaining lifetime.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if refreshToken == "" {
		return nil, ErrRefreshInvalid
	}

	revoked, err := e.ledger.IsRevoked(ctx, refreshToken, revocation.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	if revoked {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", "", ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	rec, err := e.userStore.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshFailure, false, "", "", ErrRefreshInvalid, nil)
			return nil, ErrRefreshInvalid
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if rec.RefreshToken != refreshToken ||
		rec.RefreshTokenExpiry == nil ||
		!e.clock().Before(*rec.RefreshTokenExpiry) {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, rec.ID, rec.Email, ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	if e.config.Token.RotateRefreshOnUse {
		// Revoke the presented credential first: if issuance then fails the
		// caller re-authenticates, but the old value can never resurface.
		oldExpiry := *rec.RefreshTokenExpiry
		if err := e.ledger.Revoke(ctx, refreshToken, revocation.KindRefresh, oldExpiry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
		}
		e.metricInc(MetricRevocationWrite)

		pair, err := e.issueTokens(ctx, rec)
		if err != nil {
			e.emitAudit(ctx, auditEventRefreshFailure, false, rec.ID, rec.Email, err, nil)
			return nil, err
		}

		e.metricInc(MetricRefreshSuccess)
		e.metricInc(MetricRefreshRotated)
		e.emitAudit(ctx, auditEventRefreshSuccess, true, rec.ID, rec.Email, nil, func() map[string]string {
			return map[string]string{"rotated": "true"}
		})
		return pair, nil
	}

	access, _, err := e.jwtManager.CreateAccess(rec.ID, rec.Email, rec.Role)
	if err != nil {
		e.emitAudit(ctx, auditEventRefreshFailure, false, rec.ID, rec.Email, err, nil)
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, rec.ID, rec.Email, nil, nil)
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(e.config.Token.AccessTTL / time.Second),
	}, nil
}
