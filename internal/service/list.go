package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/blog-console/internal/metrics"
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/BloggingApp/blog-console/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
)

// ListRequest describes one list view: a status partition plus the client-side
// filters, sort and paging applied to it.
type ListRequest struct {
	Status   model.Status
	Category string
	Tag      string
	Filters  query.FilterSpec
	Sort     query.SortSpec
	Page     int
	PageSize int
}

func (s *postService) List(ctx context.Context, req ListRequest) (*query.Page, error) {
	if req.Status == "" {
		req.Status = model.StatusPublished
	}
	if req.PageSize <= 0 {
		req.PageSize = s.settings.DefaultPageSize
	}

	posts, err := s.partition(ctx, model.PostFilter{
		Status:   req.Status,
		Category: req.Category,
		Tag:      req.Tag,
	})
	if err != nil {
		return nil, err
	}

	page := query.ListView(posts, req.Status, req.Filters, req.Sort, req.Page, req.PageSize)
	return &page, nil
}

// Search is List with at least one filter. An empty filter is rejected before
// the store is touched.
func (s *postService) Search(ctx context.Context, req ListRequest) (*query.Page, error) {
	if req.Filters.IsEmpty() && req.Category == "" && req.Tag == "" {
		return nil, ErrEmptySearch
	}
	return s.List(ctx, req)
}

// partition loads one status partition. A store without the lifecycle columns
// yields an empty deleted partition, and the other partitions are retried once
// with the reduced column set.
func (s *postService) partition(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	posts, err := s.selectCached(ctx, filter)
	if errors.Is(err, records.ErrSchemaMismatch) {
		metrics.ListViewDegradedTotal.WithLabelValues(string(filter.Status)).Inc()
		s.logger.Sugar().Warnf("post store lacks lifecycle columns, degrading %s view", filter.Status)
		if filter.Status == model.StatusDeleted {
			return []*model.Post{}, nil
		}
		filter.Legacy = true
		posts, err = s.selectCached(ctx, filter)
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to select %s posts: %s", filter.Status, err.Error())
		return nil, ErrInternal
	}
	return posts, nil
}

// selectCached serves a partition from redis. The key carries the partition
// generation read before the store, so a fill racing a mutation is never seen.
func (s *postService) selectCached(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	if s.repo.Redis == nil {
		return s.repo.Post.Select(ctx, filter)
	}

	generation, err := s.partitionGeneration(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get posts partition generation from redis: %s", err.Error())
		return s.repo.Post.Select(ctx, filter)
	}

	key := redisrepo.PartitionKey(generation, string(filter.Status), filter.Legacy, filter.Category, filter.Tag)
	cached, err := redisrepo.GetMany[model.Post](s.repo.Redis.Default, ctx, key)
	if err == nil {
		if cached == nil {
			cached = []*model.Post{}
		}
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Sugar().Errorf("failed to get posts partition(%s) from redis: %s", key, err.Error())
	}

	posts, err := s.repo.Post.Select(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.SetJSON(ctx, key, posts, s.cacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set posts partition(%s) in redis: %s", key, err.Error())
	}
	return posts, nil
}

func (s *postService) partitionGeneration(ctx context.Context) (int64, error) {
	generation, err := s.repo.Redis.Get(ctx, redisrepo.PARTITION_GENERATION).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}
