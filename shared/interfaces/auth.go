package interfaces

import (
	"context"

	"drivethru-server/shared/models"
)

// TokenVerifier defines the interface for verifying platform JWT tokens.
type TokenVerifier interface {
	// VerifyPlatformToken checks signature, expiry and the skill id (sub) and returns the claims.
	VerifyPlatformToken(ctx context.Context, tokenString string) (*models.PlatformClaims, error)
}
