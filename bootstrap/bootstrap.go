// Package bootstrap wires configuration, logging, the database and Redis into a runnable app.
// Both the CLI (cmd/api) and the serverless entry point (api/) start here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"investportal-backend/internal/config"
	"investportal-backend/internal/infrastructure/database"
	"investportal-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Runtime holds the opened connections.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
}

// ConfigureLogging sets the global zerolog level and writer. Development gets the console writer.
func ConfigureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openDB is swapped in tests to observe the pool Open creates.
var openDB = database.Open

// Open connects to the database and (optionally) Redis and verifies both with a ping.
// On any failure the connections opened so far are closed again.
func Open(ctx context.Context, cfg *config.Config) (_ *Runtime, err error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := openDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	rt := &Runtime{Config: cfg, DB: db}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	log.Info().Str("driver", db.Dialector.Name()).Msg("Database connected")

	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info().Msg("Schema migrated")
	}

	rdb, err := database.OpenRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rt.Redis = rdb
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info().Msg("Redis connected")
	} else {
		log.Warn().Msg("REDIS_URL not set; request stats and error log disabled")
	}
	return rt, nil
}

// App builds the HTTP app over the runtime's connections.
func (r *Runtime) App() (*fiber.App, error) {
	if r.Config.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return router.New(r.Config, r.DB, r.Redis), nil
}

// Close releases the connections.
func (r *Runtime) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if sqlDB, err := r.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// New creates the Fiber app for the serverless handler: config, logging, connections, routes.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	ConfigureLogging(cfg)
	rt, err := Open(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return rt.App()
}
