package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStatusClause(t *testing.T) {
	tests := []struct {
		status   model.Status
		legacy   bool
		expected string
	}{
		{model.StatusPublished, false, "COALESCE(is_deleted, false) = false AND draft = false"},
		{model.StatusDraft, false, "COALESCE(is_deleted, false) = false AND draft = true"},
		{model.StatusDeleted, false, "is_deleted = true"},
		{model.StatusPublished, true, "draft = false"},
		{model.StatusDraft, true, "draft = true"},
		{model.StatusDeleted, true, "false"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/legacy=%v", tt.status, tt.legacy), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusClause(tt.status, tt.legacy))
		})
	}
}

func TestSelectColumns(t *testing.T) {
	assert.NotContains(t, selectColumns(true), "is_deleted")
	assert.True(t, strings.HasSuffix(selectColumns(false), "is_deleted, deleted_at"))
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(pgx.ErrNoRows), records.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("query: %w", &pgconn.PgError{Code: "42703"})), records.ErrSchemaMismatch)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestUpdatableColumnsCoverPatch(t *testing.T) {
	s := "x"
	b := true
	tags := []string{"a"}
	patch := model.PostPatch{
		Title: &s, Content: &s, Excerpt: &s, CoverImage: &s, Category: &s,
		Tags: &tags, Images: &tags, Draft: &b, IsDeleted: &b, ClearDeletedAt: true,
	}
	for _, col := range patch.Columns() {
		_, ok := updatableColumns[col.Name]
		assert.True(t, ok, col.Name)
	}
}
