package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/blog-console/internal/metrics"
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Transition string

const (
	TransitionCreate          Transition = "create"
	TransitionUpdate          Transition = "update"
	TransitionPublish         Transition = "publish"
	TransitionUnpublish       Transition = "unpublish"
	TransitionSoftDelete      Transition = "soft_delete"
	TransitionRestore         Transition = "restore"
	TransitionPermanentDelete Transition = "permanent_delete"
)

// batchConcurrency caps the number of per-id store calls in flight.
const batchConcurrency = 8

func (s *postService) Publish(ctx context.Context, id uuid.UUID) error {
	return s.transitionOne(ctx, id, TransitionPublish)
}

func (s *postService) Unpublish(ctx context.Context, id uuid.UUID) error {
	return s.transitionOne(ctx, id, TransitionUnpublish)
}

func (s *postService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.transitionOne(ctx, id, TransitionSoftDelete)
}

func (s *postService) Restore(ctx context.Context, id uuid.UUID) error {
	return s.transitionOne(ctx, id, TransitionRestore)
}

func (s *postService) PermanentlyDelete(ctx context.Context, id uuid.UUID) error {
	return s.transitionOne(ctx, id, TransitionPermanentDelete)
}

func (s *postService) BatchPublish(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error) {
	return s.transitionMany(ctx, ids, TransitionPublish)
}

func (s *postService) BatchUnpublish(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error) {
	return s.transitionMany(ctx, ids, TransitionUnpublish)
}

func (s *postService) BatchSoftDelete(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error) {
	return s.transitionMany(ctx, ids, TransitionSoftDelete)
}

func (s *postService) BatchRestore(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error) {
	return s.transitionMany(ctx, ids, TransitionRestore)
}

func (s *postService) BatchPermanentlyDelete(ctx context.Context, ids []uuid.UUID) (*model.BatchResult, error) {
	return s.transitionMany(ctx, ids, TransitionPermanentDelete)
}

func (s *postService) BatchUpdate(ctx context.Context, ids []uuid.UUID, patch model.PostPatch) (*model.BatchResult, error) {
	if err := s.checkPatch(patch); err != nil {
		return nil, err
	}
	return s.fanOut(ctx, ids, TransitionUpdate, func(ctx context.Context, id uuid.UUID) (*model.Post, error) {
		return s.update(ctx, id, patch)
	})
}

func (s *postService) transitionOne(ctx context.Context, id uuid.UUID, t Transition) error {
	post, err := s.apply(ctx, id, t)
	if err != nil {
		metrics.LifecycleTransitionsTotal.WithLabelValues(string(t), "error").Inc()
		return err
	}
	if post != nil {
		s.afterMutation(ctx, t, []*model.Post{post})
	}
	return nil
}

func (s *postService) transitionMany(ctx context.Context, ids []uuid.UUID, t Transition) (*model.BatchResult, error) {
	return s.fanOut(ctx, ids, t, func(ctx context.Context, id uuid.UUID) (*model.Post, error) {
		return s.apply(ctx, id, t)
	})
}

// fanOut runs fn for every distinct id and gathers per-id outcomes.
// One failing id never cancels the others.
func (s *postService) fanOut(ctx context.Context, ids []uuid.UUID, t Transition, fn func(context.Context, uuid.UUID) (*model.Post, error)) (*model.BatchResult, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, newValidationError("ids", "at least one id is required")
	}

	posts := make([]*model.Post, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			posts[i], errs[i] = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.BatchResult{
		Succeeded: []uuid.UUID{},
		Failed:    []*model.BatchFailure{},
	}
	var changed []*model.Post
	for i, id := range ids {
		if errs[i] != nil {
			result.Failed = append(result.Failed, &model.BatchFailure{ID: id, Error: errs[i].Error(), Err: errs[i]})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
		if posts[i] != nil {
			changed = append(changed, posts[i])
		}
	}

	if n := len(result.Failed); n > 0 {
		metrics.LifecycleTransitionsTotal.WithLabelValues(string(t), "error").Add(float64(n))
	}
	if len(changed) > 0 {
		s.afterMutation(ctx, t, changed)
	}
	return result, nil
}

// apply runs one lifecycle transition against the stored post. A nil post with
// a nil error means the post already sat in the target state.
func (s *postService) apply(ctx context.Context, id uuid.UUID, t Transition) (*model.Post, error) {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch := model.PostPatch{UpdatedAt: now}
	switch t {
	case TransitionPublish:
		if post.Deleted() {
			return nil, newValidationError("status", "restore the post before publishing it")
		}
		if !post.Draft {
			return nil, nil
		}
		if err := validateContent(post.Title, post.Content, false); err != nil {
			return nil, err
		}
		patch.Draft = boolPtr(false)
	case TransitionUnpublish:
		if post.Deleted() {
			return nil, newValidationError("status", "restore the post before unpublishing it")
		}
		if post.Draft {
			return nil, nil
		}
		patch.Draft = boolPtr(true)
	case TransitionSoftDelete:
		if post.Deleted() {
			return nil, nil
		}
		patch.IsDeleted = boolPtr(true)
		patch.DeletedAt = &now
	case TransitionRestore:
		if !post.Deleted() {
			return nil, nil
		}
		patch.IsDeleted = boolPtr(false)
		patch.ClearDeletedAt = true
	case TransitionPermanentDelete:
		if !post.Deleted() {
			return nil, newValidationError("status", "only deleted posts can be removed permanently")
		}
		return s.purge(ctx, post)
	default:
		return nil, newValidationError("action", "unknown transition "+string(t))
	}

	if err := s.write(ctx, id, patch); err != nil {
		return nil, err
	}
	patch.ApplyTo(post)
	return post, nil
}

func (s *postService) purge(ctx context.Context, post *model.Post) (*model.Post, error) {
	affected, err := s.repo.Post.Delete(ctx, []uuid.UUID{post.ID})
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s) from postgres: %s", post.ID.String(), err.Error())
		return nil, ErrInternal
	}
	if len(affected) == 0 {
		return nil, ErrNotFound
	}
	return post, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func boolPtr(v bool) *bool {
	return &v
}
