package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"drivethru-server/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxConnectRetries = 50
	connectRetryDelay = 3 * time.Second
)

// setupPostgres создает пул подключений к PostgreSQL с повторными попытками.
func setupPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	zap.L().Info("Attempting to connect to PostgreSQL", zap.Int("max_retries", maxConnectRetries), zap.Duration("retry_delay", connectRetryDelay))

	var lastErr error
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		connectCtx, connectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
		connectCancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			err = pool.Ping(pingCtx)
			pingCancel()
			if err == nil {
				zap.L().Info("Successfully connected and pinged PostgreSQL", zap.Int("attempt", attempt))
				return pool, nil
			}
			pool.Close()
		}

		lastErr = err
		zap.L().Warn("Postgres connection failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if !sleepOrDone(ctx, attempt) {
			break
		}
	}
	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", maxConnectRetries, lastErr)
}

// setupRedis создает клиент Redis с повторными попытками.
func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	zap.L().Info("Attempting to connect to Redis", zap.String("address", redisOpts.Addr), zap.Int("db", redisOpts.DB))

	var lastErr error
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		client := redis.NewClient(redisOpts)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err == nil {
			zap.L().Info("Successfully connected and pinged Redis", zap.Int("attempt", attempt))
			return client, nil
		}
		client.Close()

		lastErr = err
		zap.L().Warn("Redis ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if !sleepOrDone(ctx, attempt) {
			break
		}
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxConnectRetries, lastErr)
}

// connectRabbitMQ подключается к RabbitMQ с несколькими попытками.
func connectRabbitMQ(ctx context.Context, rawURL string, logger *zap.Logger) (*amqp.Connection, error) {
	logger.Info("Attempting to connect to RabbitMQ", zap.String("url", maskURL(rawURL)), zap.Int("max_retries", maxConnectRetries))

	var err error
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(rawURL)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ", zap.Int("attempt", attempt))
			go func() {
				closeErr := <-conn.NotifyClose(make(chan *amqp.Error, 1))
				if closeErr != nil {
					logger.Error("RabbitMQ connection closed unexpectedly", zap.Error(closeErr))
				} else {
					logger.Info("RabbitMQ connection closed gracefully.")
				}
			}()
			return conn, nil
		}
		logger.Warn("RabbitMQ connection failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if !sleepOrDone(ctx, attempt) {
			break
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxConnectRetries, err)
}

// sleepOrDone ждёт перед следующей попыткой. false, если попытки закончились или ctx отменён.
func sleepOrDone(ctx context.Context, attempt int) bool {
	if attempt >= maxConnectRetries {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(connectRetryDelay):
		return true
	}
}

// maskURL скрывает пароль в URL для логирования.
func maskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
