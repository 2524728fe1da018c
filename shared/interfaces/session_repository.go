package interfaces

import (
	"context"

	"drivethru-server/shared/models"
)

// SessionRepository хранит контекст разговора.
//
//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
type SessionRepository interface {
	// GetByID returns models.ErrNotFound if the session is missing or has expired.
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)

	// Save upserts the session and refreshes its TTL.
	Save(ctx context.Context, session *models.Session) error
}
