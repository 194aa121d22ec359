package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/models"
)

type PostRepo struct {
	DB DBTX
}

const createPost = `-- name: CreatePost
INSERT INTO posts (id, user_id, title, content)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, title, content, created_at, updated_at
`

func (r *PostRepo) CreatePost(ctx context.Context, userID uuid.UUID, title string, content string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, createPost, uuid.New(), userID, title, content)
	post, err := pgx.CollectOneRow(rows, rowToPost)
	if err != nil {
		return post, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

const getPost = `-- name: GetPost
SELECT id, user_id, title, content, created_at, updated_at FROM posts
WHERE id = $1
`

func (r *PostRepo) GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPost, postID)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

const listPosts = `-- name: ListPosts
SELECT id, user_id, title, content, created_at, updated_at FROM posts
ORDER BY created_at DESC
`

func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPosts)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return posts, nil
}

const updatePost = `-- name: UpdatePost
UPDATE posts
SET title = $2, content = $3, updated_at = $4
WHERE id = $1
RETURNING id, user_id, title, content, created_at, updated_at
`

func (r *PostRepo) UpdatePost(ctx context.Context, postID uuid.UUID, title string, content string, updatedAt time.Time) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, updatePost, postID, title, content, updatedAt)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

const deletePost = `-- name: DeletePost
DELETE FROM posts
WHERE id = $1
`

func (r *PostRepo) DeletePost(ctx context.Context, postID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePost, postID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
