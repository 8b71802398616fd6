// Package records defines the record store contract the lifecycle and
// query engines depend on. Implementations live in sibling packages.
package records

import (
	"context"
	"errors"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("post not found")
	ErrSchemaMismatch = errors.New("store schema lacks lifecycle columns")
)

type PostStore interface {
	Select(ctx context.Context, filter model.PostFilter) ([]*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	// Update returns the ids that matched a row.
	Update(ctx context.Context, ids []uuid.UUID, patch model.PostPatch) ([]uuid.UUID, error)
	// Delete returns the ids that were removed.
	Delete(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}
