package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepo_CreateSelectUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepo()

	created, err := repo.Create(ctx, model.Post{Title: "hello", Draft: true, Tags: []string{"go"}})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.NotNil(t, created.IsDeleted)
	assert.False(t, *created.IsDeleted)
	assert.NotNil(t, created.Images)
	assert.Empty(t, created.Images)

	drafts, err := repo.Select(ctx, model.PostFilter{Status: model.StatusDraft, Tag: "go"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	draft := false
	affected, err := repo.Update(ctx, []uuid.UUID{created.ID, uuid.New()}, model.PostPatch{Draft: &draft})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{created.ID}, affected)

	published, err := repo.Select(ctx, model.PostFilter{Status: model.StatusPublished})
	require.NoError(t, err)
	assert.Len(t, published, 1)

	removed, err := repo.Delete(ctx, []uuid.UUID{created.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{created.ID}, removed)

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestPostRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepo()

	created, err := repo.Create(ctx, model.Post{Title: "original"})
	require.NoError(t, err)
	created.Title = "mutated"

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", found.Title)
}

func TestPostRepo_LegacySchema(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepo()
	repo.SetLegacySchema(true)

	_, err := repo.Create(ctx, model.Post{Title: "old"})
	require.NoError(t, err)

	_, err = repo.Select(ctx, model.PostFilter{Status: model.StatusPublished})
	assert.ErrorIs(t, err, records.ErrSchemaMismatch)

	posts, err := repo.Select(ctx, model.PostFilter{Status: model.StatusPublished, Legacy: true})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0].IsDeleted)
}

func TestPostRepo_FailOn(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepo()

	created, err := repo.Create(ctx, model.Post{Title: "x"})
	require.NoError(t, err)

	boom := errors.New("boom")
	repo.FailOn(created.ID, boom)
	_, err = repo.Delete(ctx, []uuid.UUID{created.ID})
	assert.ErrorIs(t, err, boom)

	repo.FailOn(created.ID, nil)
	removed, err := repo.Delete(ctx, []uuid.UUID{created.ID})
	require.NoError(t, err)
	assert.Len(t, removed, 1)
}
