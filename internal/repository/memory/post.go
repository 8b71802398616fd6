// Package memory is a map-backed record store used by tests and by the
// `--store=memory` development mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/google/uuid"
)

type PostRepo struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*model.Post
	now   func() time.Time

	// legacy simulates a table created before soft deletion existed.
	legacy bool
	// failures makes Update/Delete fail for specific ids.
	failures map[uuid.UUID]error
	calls    int
}

func NewPostRepo() *PostRepo {
	return &PostRepo{
		posts:    make(map[uuid.UUID]*model.Post),
		failures: make(map[uuid.UUID]error),
		now:      time.Now,
	}
}

var _ records.PostStore = (*PostRepo)(nil)

func (r *PostRepo) SetLegacySchema(legacy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legacy = legacy
}

// FailOn makes every mutation touching id fail with err. A nil err clears it.
func (r *PostRepo) FailOn(id uuid.UUID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, id)
		return
	}
	r.failures[id] = err
}

// Calls counts every store operation issued so far.
func (r *PostRepo) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}

// Put stores post as is, bypassing Create defaults.
func (r *PostRepo) Put(post *model.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = post.Clone()
}

func (r *PostRepo) Select(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if r.legacy && !filter.Legacy {
		return nil, records.ErrSchemaMismatch
	}

	var posts []*model.Post
	for _, p := range r.posts {
		cp := p.Clone()
		if filter.Legacy {
			cp.IsDeleted = nil
			cp.DeletedAt = nil
		}
		if filter.Match(cp) {
			posts = append(posts, cp)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	p, ok := r.posts[id]
	if !ok {
		return nil, records.ErrNotFound
	}
	cp := p.Clone()
	if r.legacy {
		cp.IsDeleted = nil
		cp.DeletedAt = nil
	}
	return cp, nil
}

func (r *PostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if _, exists := r.posts[post.ID]; exists {
		return nil, fmt.Errorf("post %s already exists", post.ID)
	}

	now := r.now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.IsDeleted == nil {
		f := false
		post.IsDeleted = &f
	}

	r.posts[post.ID] = post.Clone()
	return post.Clone(), nil
}

func (r *PostRepo) Update(ctx context.Context, ids []uuid.UUID, patch model.PostPatch) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if err := r.failureFor(ids); err != nil {
		return nil, err
	}
	if r.legacy && (patch.IsDeleted != nil || patch.DeletedAt != nil || patch.ClearDeletedAt) {
		return nil, records.ErrSchemaMismatch
	}

	var affected []uuid.UUID
	for _, id := range ids {
		p, ok := r.posts[id]
		if !ok {
			continue
		}
		patch.ApplyTo(p)
		affected = append(affected, id)
	}
	return affected, nil
}

func (r *PostRepo) Delete(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if err := r.failureFor(ids); err != nil {
		return nil, err
	}

	var removed []uuid.UUID
	for _, id := range ids {
		if _, ok := r.posts[id]; !ok {
			continue
		}
		delete(r.posts, id)
		removed = append(removed, id)
	}
	return removed, nil
}

func (r *PostRepo) failureFor(ids []uuid.UUID) error {
	for _, id := range ids {
		if err, ok := r.failures[id]; ok {
			return err
		}
	}
	return nil
}
