// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// TokenClaims represents the claims contained in an access token.
type TokenClaims struct {
	UserID         string
	OrganizationID string
	ExpiresAt      time.Time
}

// TokenService defines the interface for access token operations.
type TokenService interface {
	// GenerateAccessToken issues an access token for a user of an organization.
	GenerateAccessToken(ctx context.Context, userID, organizationID string, ttl time.Duration) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
