package credlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/credlock/credlock/revocation"
)

// Authenticate verifies an access credential and returns its claims. It is
// the guard operation middleware builds on. Failure categories are distinct:
// [ErrNoToken], [ErrTokenRevoked], [ErrTokenExpired], [ErrTokenInvalid].
// The revocation ledger is consulted before the signature check, so a
// revoked credential is rejected no matter what its bytes claim.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}
	}()

	if strings.TrimSpace(accessToken) == "" {
		e.metricInc(MetricAuthenticateFailure)
		return nil, ErrNoToken
	}

	revoked, err := e.ledger.IsRevoked(ctx, accessToken, revocation.KindAccess)
	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		return nil, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	if revoked {
		e.metricInc(MetricAuthenticateRevoked)
		return nil, ErrTokenRevoked
	}

	claims, err := e.jwtManager.ParseAccess(accessToken)
	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	result := &AuthResult{
		UserID: claims.UID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	e.metricInc(MetricAuthenticateSuccess)
	return result, nil
}
