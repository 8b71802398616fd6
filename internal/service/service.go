package service

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-console/internal/dto"
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
	"github.com/BloggingApp/blog-console/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Post interface {
	Create(ctx context.Context, input dto.CreatePostRequest) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, patch model.PostPatch) (*model.Post, error)

	Publish(ctx context.Context, id uuid.UUID) error
	Unpublish(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	PermanentlyDelete(ctx context.Context, id uuid.UUID) error

	BatchPublish(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error)
	BatchUnpublish(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error)
	BatchSoftDelete(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error)
	BatchRestore(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error)
	BatchPermanentlyDelete(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error)
	BatchUpdate(ctx context.Context, ids []uuid.UUID, patch model.PostPatch) (*model.BatchResult, error)

	List(ctx context.Context, req ListRequest) (*query.Page, error)
	Search(ctx context.Context, req ListRequest) (*query.Page, error)
	Settings() model.SiteSettings
}

// EventPublisher delivers lifecycle events. *rabbitmq.MQConn satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, queue string, v interface{}) error
}

type Config struct {
	Settings       model.SiteSettings
	CacheTTL       time.Duration
	LifecycleQueue string
}

type Service struct {
	Post
}

// New builds the services. mq may be nil, which disables lifecycle events.
func New(logger *zap.Logger, repo *repository.Repository, mq EventPublisher, cfg Config) *Service {
	return &Service{
		Post: newPostService(logger, repo, mq, cfg),
	}
}
