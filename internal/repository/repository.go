package repository

import (
	"github.com/BloggingApp/blog-console/internal/repository/memory"
	"github.com/BloggingApp/blog-console/internal/repository/postgres"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/BloggingApp/blog-console/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	Post  records.PostStore
	Redis *redisrepo.RedisRepository
}

// New wires the postgres record store. rdb may be nil, which disables the partition cache.
func New(db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *Repository {
	return NewWithStore(postgres.New(db, logger).Post, rdb)
}

// NewMemory backs the repository with the in-memory record store.
func NewMemory(rdb *redis.Client) *Repository {
	return NewWithStore(memory.NewPostRepo(), rdb)
}

func NewWithStore(store records.PostStore, rdb *redis.Client) *Repository {
	repo := &Repository{Post: store}
	if rdb != nil {
		repo.Redis = redisrepo.New(rdb)
	}
	return repo
}
