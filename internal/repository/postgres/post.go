package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/repository/records"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const undefinedColumn = "42703"

const baseColumns = `id, title, content, COALESCE(excerpt, ''), COALESCE(cover_image, ''), COALESCE(category, ''),
		COALESCE(tags, '{}'), COALESCE(images, '{}'), draft, views, comments_count, created_at, updated_at`

const lifecycleColumns = `, is_deleted, deleted_at`

var updatableColumns = map[string]struct{}{
	"title":       {},
	"content":     {},
	"excerpt":     {},
	"cover_image": {},
	"category":    {},
	"tags":        {},
	"images":      {},
	"draft":       {},
	"is_deleted":  {},
	"deleted_at":  {},
	"updated_at":  {},
}

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

type postRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newPostRepo(db *pgxpool.Pool, logger *zap.Logger) records.PostStore {
	return &postRepo{
		db:     db,
		logger: logger,
	}
}

func selectColumns(legacy bool) string {
	if legacy {
		return baseColumns
	}
	return baseColumns + lifecycleColumns
}

func statusClause(status model.Status, legacy bool) string {
	if legacy {
		switch status {
		case model.StatusDraft:
			return "draft = true"
		case model.StatusDeleted:
			return "false"
		}
		return "draft = false"
	}

	switch status {
	case model.StatusDraft:
		return "COALESCE(is_deleted, false) = false AND draft = true"
	case model.StatusDeleted:
		return "is_deleted = true"
	}
	return "COALESCE(is_deleted, false) = false AND draft = false"
}

func (r *postRepo) Select(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	query := "SELECT " + selectColumns(filter.Legacy) + " FROM posts WHERE " + statusClause(filter.Status, filter.Legacy)
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += " AND category = $" + strconv.Itoa(len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += " AND tags @> ARRAY[$" + strconv.Itoa(len(args)) + "]::text[]"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows, filter.Legacy)
		if err != nil {
			return nil, translate(err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	return posts, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := r.findByID(ctx, id, false)
	if errors.Is(err, records.ErrSchemaMismatch) {
		r.logger.Sugar().Warnf("posts table has no lifecycle columns, reading post(%s) with legacy columns", id.String())
		return r.findByID(ctx, id, true)
	}
	return post, err
}

func (r *postRepo) findByID(ctx context.Context, id uuid.UUID, legacy bool) (*model.Post, error) {
	row := r.db.QueryRow(ctx, "SELECT "+selectColumns(legacy)+" FROM posts WHERE id = $1", id)
	post, err := scanPost(row, legacy)
	if err != nil {
		return nil, translate(err)
	}
	return post, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	notDeleted := false
	post.IsDeleted = &notDeleted

	err := r.insert(ctx, &post, false)
	if errors.Is(err, records.ErrSchemaMismatch) {
		r.logger.Sugar().Warnf("posts table has no lifecycle columns, inserting post(%s) with legacy columns", post.ID.String())
		err = r.insert(ctx, &post, true)
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) insert(ctx context.Context, post *model.Post, legacy bool) error {
	columns := "id, title, content, excerpt, cover_image, category, tags, images, draft, created_at, updated_at"
	args := []interface{}{
		post.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.CoverImage,
		post.Category,
		post.Tags,
		post.Images,
		post.Draft,
		post.CreatedAt,
		post.UpdatedAt,
	}
	if !legacy {
		columns += ", is_deleted"
		args = append(args, false)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := "INSERT INTO posts(" + columns + ") VALUES(" + strings.Join(placeholders, ", ") + ") RETURNING id"

	return translate(r.db.QueryRow(ctx, query, args...).Scan(&post.ID))
}

func (r *postRepo) Update(ctx context.Context, ids []uuid.UUID, patch model.PostPatch) ([]uuid.UUID, error) {
	cols := patch.Columns()
	if len(cols) == 0 || len(ids) == 0 {
		return nil, nil
	}

	var sets []string
	args := []interface{}{}
	for _, col := range cols {
		if _, ok := updatableColumns[col.Name]; !ok {
			return nil, ErrFieldsNotAllowedToUpdate
		}
		args = append(args, col.Value)
		sets = append(sets, col.Name+" = $"+strconv.Itoa(len(args)))
	}
	args = append(args, ids)
	query := "UPDATE posts SET " + strings.Join(sets, ", ") + " WHERE id = ANY($" + strconv.Itoa(len(args)) + ") RETURNING id"

	return r.collectIDs(ctx, query, args...)
}

func (r *postRepo) Delete(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.collectIDs(ctx, "DELETE FROM posts WHERE id = ANY($1) RETURNING id", ids)
}

func (r *postRepo) collectIDs(ctx context.Context, query string, args ...interface{}) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	return ids, nil
}

func scanPost(row pgx.Row, legacy bool) (*model.Post, error) {
	var post model.Post
	dest := []interface{}{
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.CoverImage,
		&post.Category,
		&post.Tags,
		&post.Images,
		&post.Draft,
		&post.Views,
		&post.CommentsCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	}
	if !legacy {
		dest = append(dest, &post.IsDeleted, &post.DeletedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &post, nil
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return records.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedColumn {
		return records.ErrSchemaMismatch
	}
	return err
}
