package postgres

import (
	"context"
	"fmt"

	"github.com/BloggingApp/blog-console/internal/config"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresRepository struct {
	Post records.PostStore
}

func New(db *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Post: newPostRepo(db, logger),
	}
}

// DB opens a pool against cfg and attaches the query tracer.
func DB(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.ConnConfig.Tracer = newQueryTracer(logger)

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
