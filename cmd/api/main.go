package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"board-api/internal/config"
	"board-api/internal/db"
	apihttp "board-api/internal/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	lifecycle := db.NewLifecycle(logger, cfg)
	defer lifecycle.Close()

	// En desarrollo sincronizamos el esquema al arrancar; el reseed
	// destructivo solo corre cuando se pide explicitamente.
	if cfg.IsDevelopment() {
		pool, err := lifecycle.EnsureConnected(ctx)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		if err := db.Sync(ctx, pool, cfg.EraseDatabase); err != nil {
			logger.Fatal("schema sync", zap.Error(err))
		}
		if cfg.EraseDatabase {
			if err := db.Seed(ctx, pool); err != nil {
				logger.Fatal("seed", zap.Error(err))
			}
			logger.Info("database reseeded")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, rate limiting disabled", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	userHandler := apihttp.NewUserHandler(logger)
	messageHandler := apihttp.NewMessageHandler(logger)
	router := apihttp.NewRouter(logger, cfg, lifecycle, redisClient, userHandler, messageHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
