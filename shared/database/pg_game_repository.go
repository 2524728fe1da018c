package database

import (
	"context"
	"errors"
	"fmt"

	"drivethru-server/shared/interfaces"
	"drivethru-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	getGameByIDQuery = `SELECT id, created_at, updated_at FROM games WHERE id = $1`

	listGamePlayersQuery = `
        SELECT name, score
        FROM game_players
        WHERE game_id = $1
        ORDER BY position
    `
	upsertGameQuery = `
        INSERT INTO games (id, created_at, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET
            updated_at = EXCLUDED.updated_at
    `
	deleteGamePlayersQuery = `DELETE FROM game_players WHERE game_id = $1`
)

var _ interfaces.GameRepository = (*pgGameRepository)(nil)

type pgGameRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgGameRepository создает PostgreSQL-хранилище игр.
func NewPgGameRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.GameRepository {
	return &pgGameRepository{
		pool:   pool,
		logger: logger.Named("PgGameRepo"),
	}
}

// GetByID загружает игру вместе с игроками в порядке их добавления.
func (r *pgGameRepository) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	log := r.logger.With(zap.String("gameID", gameID))

	var game models.Game
	if err := pgxscan.Get(ctx, r.pool, &game, getGameByIDQuery, gameID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("Game not found")
			return nil, models.ErrNotFound
		}
		log.Error("Error getting game by ID", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения игры %s: %w", gameID, err)
	}

	players := make([]models.PlayerScore, 0)
	if err := pgxscan.Select(ctx, r.pool, &players, listGamePlayersQuery, gameID); err != nil {
		log.Error("Error listing game players", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения игроков игры %s: %w", gameID, err)
	}
	game.Players = players
	return &game, nil
}

// Save атомарно перезаписывает игру и полный список игроков.
func (r *pgGameRepository) Save(ctx context.Context, game *models.Game) error {
	log := r.logger.With(zap.String("gameID", game.ID), zap.Int("players", len(game.Players)))

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertGameQuery, game.ID, game.CreatedAt, game.UpdatedAt); err != nil {
			return fmt.Errorf("upsert games: %w", err)
		}
		if _, err := tx.Exec(ctx, deleteGamePlayersQuery, game.ID); err != nil {
			return fmt.Errorf("delete game_players: %w", err)
		}
		if len(game.Players) == 0 {
			return nil
		}
		rows := make([][]any, 0, len(game.Players))
		for i, p := range game.Players {
			rows = append(rows, []any{game.ID, i, p.Name, p.Score})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"game_players"},
			[]string{"game_id", "position", "name", "score"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy game_players: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to save game", zap.Error(err))
		return fmt.Errorf("ошибка сохранения игры %s: %w", game.ID, err)
	}

	log.Debug("Game saved")
	return nil
}
