package interfaces

import (
	"context"

	"drivethru-server/shared/models"
)

// GameRepository - долговременное хранилище игр и очков игроков.
//
//go:generate mockery --name GameRepository --output ./mocks --outpkg mocks --case=underscore
type GameRepository interface {
	// GetByID возвращает игру вместе с игроками в порядке их добавления.
	// Returns models.ErrNotFound if no game with the given ID exists.
	GetByID(ctx context.Context, gameID string) (*models.Game, error)

	// Save создает игру или полностью перезаписывает её список игроков (last-writer-wins).
	Save(ctx context.Context, game *models.Game) error
}
