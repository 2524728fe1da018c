package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"drivethru-server/shared/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервиса подсчёта очков.
type Config struct {
	// Настройки сервера
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"ENV" default:"production"`

	// Настройки PostgreSQL
	DBHost            string        `envconfig:"DB_HOST" required:"true"`
	DBPort            string        `envconfig:"DB_PORT" default:"5432"`
	DBUser            string        `envconfig:"DB_USER" required:"true"`
	DBName            string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns        int32         `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout     time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	MigrationsEnabled bool          `envconfig:"MIGRATIONS_ENABLED" default:"true"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string

	// Настройки Redis
	RedisAddr  string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB    int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	// Опциональный секрет
	RedisPassword string

	// Настройки RabbitMQ. Пустой URL отключает публикацию событий.
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
	ScoreEventsQueue string `envconfig:"SCORE_EVENTS_QUEUE" default:"drivethru_score_events"`

	// Лимит событий диалога в минуту на один навык (skill id)
	RateLimitPerMinute uint `envconfig:"RATE_LIMIT_PER_MINUTE" default:"600"`

	// CORS для табло лидеров
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Секрет, которым голосовая платформа подписывает запросы
	PlatformJWTSecret string
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// EventsEnabled сообщает, настроена ли публикация событий об очках.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

// LoadConfig загружает конфигурацию из .env (если есть), переменных окружения и секретов.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации drivethru-server: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL должен быть положительным, получено %v", cfg.SessionTTL)
	}

	var loadErr error
	cfg.DBPassword, loadErr = utils.ReadSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.PlatformJWTSecret, loadErr = utils.ReadSecret("platform_jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.RedisPassword, loadErr = utils.ReadOptionalSecret("redis_password")
	if loadErr != nil {
		return nil, loadErr
	}

	log.Printf("Конфигурация drivethru-server загружена (секреты из файлов):")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  Env: %s, LogLevel: %s", cfg.Env, cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  DB Max Conns: %d, Idle Timeout: %v, Migrations: %t", cfg.DBMaxConns, cfg.DBIdleTimeout, cfg.MigrationsEnabled)
	log.Printf("  Redis: %s (db %d), Session TTL: %v", cfg.RedisAddr, cfg.RedisDB, cfg.SessionTTL)
	if cfg.EventsEnabled() {
		log.Printf("  Score Events Queue: %s", cfg.ScoreEventsQueue)
	} else {
		log.Println("  Score events: отключены (RABBITMQ_URL пуст)")
	}
	log.Printf("  Rate Limit: %d events/min per skill", cfg.RateLimitPerMinute)
	log.Printf("  CORS Allowed Origins: %v", cfg.AllowedOrigins)
	log.Println("  Platform JWT Secret: [ЗАГРУЖЕН]")

	return &cfg, nil
}
