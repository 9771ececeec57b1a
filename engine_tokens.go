package credlock

import (
	"context"
	"fmt"
	"time"

	"github.com/credlock/credlock/internal"
)

// issueTokens mints an access credential and a fresh refresh credential for
// rec, persists the refresh credential on the record, and returns the pair.
// Issuance is atomic: if the save fails, no tokens are returned and the
// previous stored refresh credential remains authoritative.
func (e *Engine) issueTokens(ctx context.Context, rec UserRecord) (*TokenPair, error) {
	access, _, err := e.jwtManager.CreateAccess(rec.ID, rec.Email, rec.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := internal.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	refreshExpiry := e.clock().Add(e.config.Token.RefreshTTL)
	rec.RefreshToken = refresh
	rec.RefreshTokenExpiry = &refreshExpiry

	if err := e.userStore.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(e.config.Token.AccessTTL / time.Second),
	}, nil
}
