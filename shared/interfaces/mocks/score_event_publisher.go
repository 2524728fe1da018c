package mocks

import (
	"context"

	"drivethru-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// ScoreEventPublisher is a mock type for the ScoreEventPublisher type
type ScoreEventPublisher struct {
	mock.Mock
}

// PublishScoreEvent provides a mock function with given fields: ctx, event
func (m *ScoreEventPublisher) PublishScoreEvent(ctx context.Context, event models.ScoreEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
