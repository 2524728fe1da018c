package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"drivethru-server/shared/interfaces"
	"drivethru-server/shared/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "drivethru:session:"

var _ interfaces.SessionRepository = (*redisSessionRepository)(nil)

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionRepository создает хранилище сессий в Redis. Каждое сохранение продлевает TTL.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) interfaces.SessionRepository {
	return &redisSessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisSessionRepo"),
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *redisSessionRepository) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get session from redis", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("ошибка чтения сессии %s из redis: %w", sessionID, err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.Error("Failed to decode session", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("ошибка декодирования сессии %s: %w", sessionID, err)
	}
	return &session, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("ошибка кодирования сессии %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session to redis", zap.String("sessionID", session.ID), zap.Error(err))
		return fmt.Errorf("ошибка записи сессии %s в redis: %w", session.ID, err)
	}
	r.logger.Debug("Session saved", zap.String("sessionID", session.ID), zap.String("state", string(session.State)), zap.Duration("ttl", r.ttl))
	return nil
}
