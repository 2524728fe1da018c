package mocks

import (
	"context"

	"drivethru-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// GameRepository is a mock type for the GameRepository type
type GameRepository struct {
	mock.Mock
}

// GetByID provides a mock function with given fields: ctx, gameID
func (m *GameRepository) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	args := m.Called(ctx, gameID)
	game, _ := args.Get(0).(*models.Game)
	return game, args.Error(1)
}

// Save provides a mock function with given fields: ctx, game
func (m *GameRepository) Save(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}
