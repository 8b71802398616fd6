package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/blog-console/internal/dto"
	"github.com/BloggingApp/blog-console/internal/metrics"
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/repository"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/BloggingApp/blog-console/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type postService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	mq       EventPublisher
	settings model.SiteSettings
	cacheTTL time.Duration
	queue    string
	now      func() time.Time
}

func newPostService(logger *zap.Logger, repo *repository.Repository, mq EventPublisher, cfg Config) *postService {
	settings := cfg.Settings
	if len(settings.Categories) == 0 {
		settings.Categories = model.DefaultCategories
	}
	return &postService{
		logger:   logger,
		repo:     repo,
		mq:       mq,
		settings: settings,
		cacheTTL: cfg.CacheTTL,
		queue:    cfg.LifecycleQueue,
		now:      time.Now,
	}
}

func (s *postService) Settings() model.SiteSettings {
	return s.settings
}

func (s *postService) Create(ctx context.Context, input dto.CreatePostRequest) (*model.Post, error) {
	draft := input.IsDraft()
	if err := validateContent(input.Title, input.Content, draft); err != nil {
		return nil, err
	}
	if err := validateCategory(s.settings, input.Category); err != nil {
		return nil, err
	}

	post := model.Post{
		Title:      input.Title,
		Content:    input.Content,
		Excerpt:    input.Excerpt,
		CoverImage: input.CoverImage,
		Category:   input.Category,
		Tags:       input.Tags,
		Images:     input.Images,
		Draft:      draft,
	}

	created, err := s.repo.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post(%s): %s", post.Title, err.Error())
		return nil, ErrInternal
	}

	s.afterMutation(ctx, TransitionCreate, []*model.Post{created})
	return created, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.repo.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to get post(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id uuid.UUID, patch model.PostPatch) (*model.Post, error) {
	if err := s.checkPatch(patch); err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, id, patch)
	if err != nil {
		metrics.LifecycleTransitionsTotal.WithLabelValues(string(TransitionUpdate), "error").Inc()
		return nil, err
	}

	s.afterMutation(ctx, TransitionUpdate, []*model.Post{updated})
	return updated, nil
}

// checkPatch holds the rules that do not depend on the stored post.
func (s *postService) checkPatch(patch model.PostPatch) error {
	if patch.IsEmpty() {
		return newValidationError("updates", "no fields to update")
	}
	if patch.IsDeleted == nil && (patch.DeletedAt != nil || patch.ClearDeletedAt) {
		return newValidationError("deleted_at", "deleted_at can only change together with is_deleted")
	}
	if patch.IsDeleted != nil {
		if *patch.IsDeleted && patch.ClearDeletedAt {
			return newValidationError("deleted_at", "a deleted post needs a deletion timestamp")
		}
		if !*patch.IsDeleted && patch.DeletedAt != nil {
			return newValidationError("deleted_at", "a live post cannot carry a deletion timestamp")
		}
	}
	if patch.Category != nil {
		if err := validateCategory(s.settings, *patch.Category); err != nil {
			return err
		}
	}
	return nil
}

func (s *postService) update(ctx context.Context, id uuid.UUID, patch model.PostPatch) (*model.Post, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch.UpdatedAt = now
	if patch.IsDeleted != nil {
		if *patch.IsDeleted {
			if patch.DeletedAt == nil {
				switch {
				case current.Deleted() && current.DeletedAt != nil:
					patch.DeletedAt = current.DeletedAt
				default:
					patch.DeletedAt = &now
				}
			}
		} else {
			patch.ClearDeletedAt = true
		}
	}

	merged := current.Clone()
	patch.ApplyTo(merged)
	if patch.Title != nil || patch.Content != nil || patch.Draft != nil {
		if err := validateContent(merged.Title, merged.Content, merged.Draft); err != nil {
			return nil, err
		}
	}

	if err := s.write(ctx, id, patch); err != nil {
		return nil, err
	}
	return merged, nil
}

// write applies patch to a single post and maps store failures onto service errors.
func (s *postService) write(ctx context.Context, id uuid.UUID, patch model.PostPatch) error {
	affected, err := s.repo.Post.Update(ctx, []uuid.UUID{id}, patch)
	if err != nil {
		if errors.Is(err, records.ErrSchemaMismatch) {
			return ErrSchemaOutdated
		}
		s.logger.Sugar().Errorf("failed to update post(%s): %s", id.String(), err.Error())
		return ErrInternal
	}
	if len(affected) == 0 {
		return ErrNotFound
	}
	return nil
}

// afterMutation retires every cached partition and announces the changed posts.
// Neither step can fail the mutation that already happened.
func (s *postService) afterMutation(ctx context.Context, transition Transition, posts []*model.Post) {
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(transition), "ok").Add(float64(len(posts)))

	if s.repo.Redis != nil {
		if err := s.repo.Redis.Incr(ctx, redisrepo.PARTITION_GENERATION).Err(); err != nil {
			s.logger.Sugar().Errorf("failed to bump post partition generation in redis: %s", err.Error())
		}
		if _, err := s.repo.Redis.DelPattern(ctx, redisrepo.PARTITION_PATTERN); err != nil {
			s.logger.Sugar().Errorf("failed to invalidate post partitions in redis: %s", err.Error())
		}
	}

	if s.mq == nil {
		return
	}
	at := s.now()
	for _, post := range posts {
		msg := dto.MQPostLifecycleMsg{
			PostID:     post.ID,
			Transition: string(transition),
			Status:     string(post.Status()),
			At:         at,
		}
		if err := s.mq.PublishJSON(ctx, s.queue, msg); err != nil {
			s.logger.Sugar().Errorf("failed to publish %s event for post(%s): %s", transition, post.ID.String(), err.Error())
		}
	}
}
