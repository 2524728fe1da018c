package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drivethru-server/internal/config"
	"drivethru-server/internal/handler"
	"drivethru-server/internal/service"
	"drivethru-server/shared/authutils"
	"drivethru-server/shared/database"
	"drivethru-server/shared/interfaces"
	sharedLogger "drivethru-server/shared/logger"
	"drivethru-server/shared/messaging"
	sharedMiddleware "drivethru-server/shared/middleware"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	logger, err := sharedLogger.New(sharedLogger.ConfigForEnv(cfg.Env, cfg.LogLevel))
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	// ctx отменяется по SIGINT/SIGTERM: прерывает попытки подключения и запускает остановку.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External Connections ---
	pgPool, err := setupPostgres(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	if cfg.MigrationsEnabled {
		if err := database.NewMigrator(pgPool, logger).Up(); err != nil {
			zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
		}
	} else {
		zap.L().Info("Database migrations disabled (MIGRATIONS_ENABLED=false)")
	}

	redisClient, err := setupRedis(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var scorePublisher interfaces.ScoreEventPublisher
	if cfg.EventsEnabled() {
		mqConn, err := connectRabbitMQ(ctx, cfg.RabbitMQURL, logger)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()

		publisher, err := messaging.NewRabbitMQScoreEventPublisher(mqConn, cfg.ScoreEventsQueue, logger)
		if err != nil {
			zap.L().Fatal("Failed to create score event publisher", zap.Error(err))
		}
		defer publisher.Close()
		scorePublisher = publisher
	} else {
		zap.L().Info("Score events disabled, RABBITMQ_URL is empty")
	}

	// --- Dependency Injection ---
	gameRepo := database.NewPgGameRepository(pgPool, logger)
	sessionRepo := database.NewRedisSessionRepository(redisClient, cfg.SessionTTL, logger)
	dialogueService := service.NewDialogueService(gameRepo, sessionRepo, scorePublisher, logger)

	verifier, err := authutils.NewJWTVerifier(cfg.PlatformJWTSecret, logger)
	if err != nil {
		zap.L().Fatal("Failed to create platform token verifier", zap.Error(err))
	}
	dialogueHandler := handler.NewDialogueHandler(dialogueService, verifier, logger)

	rateLimitStore := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: redisClient,
		Rate:        time.Minute,
		Limit:       cfg.RateLimitPerMinute,
	})
	rateLimitMiddleware := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      rateLimitKey,
	})

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(sharedMiddleware.ZapLoggingMiddlewareForGin(logger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	dialogueHandler.RegisterRoutes(router, rateLimitMiddleware)
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
