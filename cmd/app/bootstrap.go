package main

import (
	"context"
	"fmt"

	"github.com/BloggingApp/blog-console/internal/config"
	"github.com/BloggingApp/blog-console/internal/rabbitmq"
	"github.com/BloggingApp/blog-console/internal/repository"
	"github.com/BloggingApp/blog-console/internal/repository/postgres"
	"github.com/BloggingApp/blog-console/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	services *service.Service
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig() (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return config.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := config.InitViper(configFile); err != nil {
		return config.Config{}, fmt.Errorf("failed to initialize yaml config: %w", err)
	}
	cfg := config.Load()
	cfg.Debug = cfg.Debug || debug
	return cfg, nil
}

// bootstrap connects the configured store, the optional redis cache and the
// optional rabbitmq publisher, then builds the services on top of them.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
		a.closers = append(a.closers, func() { _ = rdb.Close() })
	}

	var repos *repository.Repository
	switch storeKind {
	case "memory":
		repos = repository.NewMemory(rdb)
		logger.Warn("Using in-memory post store, data is lost on exit")
	case "postgres":
		db, err := postgres.DB(ctx, cfg.DB, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			a.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		logger.Info("Successfully connected to PostgreSQL")
		a.closers = append(a.closers, db.Close)
		repos = repository.New(db, rdb, logger)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown store %q", storeKind)
	}

	var publisher service.EventPublisher
	if cfg.Blog.RabbitMQURL != "" {
		mq, err := rabbitmq.New(cfg.Blog.RabbitMQURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		logger.Info("Successfully connected to RabbitMQ")
		a.closers = append(a.closers, func() { _ = mq.Close() })
		publisher = mq
	}

	a.services = service.New(logger, repos, publisher, service.Config{
		Settings:       cfg.Blog.Settings,
		CacheTTL:       cfg.Redis.TTL,
		LifecycleQueue: cfg.Blog.LifecycleQueue,
	})
	return a, nil
}
