package mocks

import (
	"context"

	"drivethru-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// SessionRepository is a mock type for the SessionRepository type
type SessionRepository struct {
	mock.Mock
}

// GetByID provides a mock function with given fields: ctx, sessionID
func (m *SessionRepository) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

// Save provides a mock function with given fields: ctx, session
func (m *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
