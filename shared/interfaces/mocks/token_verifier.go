package mocks

import (
	"context"

	"drivethru-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// TokenVerifier is a mock type for the TokenVerifier type
type TokenVerifier struct {
	mock.Mock
}

// VerifyPlatformToken provides a mock function with given fields: ctx, tokenString
func (m *TokenVerifier) VerifyPlatformToken(ctx context.Context, tokenString string) (*models.PlatformClaims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*models.PlatformClaims)
	return claims, args.Error(1)
}
