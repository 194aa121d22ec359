package post

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/models"
)

type fakePostRepo struct {
	posts map[uuid.UUID]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uuid.UUID]models.Post{}}
}

func (r *fakePostRepo) CreatePost(_ context.Context, userID uuid.UUID, title string, content string) (models.Post, error) {
	p := models.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.posts[p.ID] = p
	return p, nil
}

func (r *fakePostRepo) GetPost(_ context.Context, postID uuid.UUID) (models.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return models.Post{}, apperrors.ErrPostNotFound
	}
	return p, nil
}

func (r *fakePostRepo) ListPosts(_ context.Context) ([]models.Post, error) {
	list := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		list = append(list, p)
	}
	return list, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, postID uuid.UUID, title string, content string, updatedAt time.Time) (models.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return models.Post{}, apperrors.ErrPostNotFound
	}
	p.Title, p.Content, p.UpdatedAt = title, content, updatedAt
	r.posts[postID] = p
	return p, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, postID uuid.UUID) error {
	if _, ok := r.posts[postID]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(r.posts, postID)
	return nil
}

func Test_PostService(t *testing.T) {
	t.Parallel()

	author := models.User{ID: uuid.New(), Email: "author@example.com"}
	stranger := models.User{ID: uuid.New(), Email: "stranger@example.com"}

	t.Run("create and get", func(t *testing.T) {
		s := NewService(newFakePostRepo())

		created, err := s.Create(t.Context(), author, "title", "content")
		require.NoError(t, err)
		assert.Equal(t, author.ID, created.UserID)

		got, err := s.Get(t.Context(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("update by author ok", func(t *testing.T) {
		s := NewService(newFakePostRepo())

		created, err := s.Create(t.Context(), author, "old", "old")
		require.NoError(t, err)

		updated, err := s.Update(t.Context(), author, created.ID, "new", "new")
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Title)
	})

	t.Run("update by stranger fails", func(t *testing.T) {
		s := NewService(newFakePostRepo())

		created, err := s.Create(t.Context(), author, "title", "content")
		require.NoError(t, err)

		_, err = s.Update(t.Context(), stranger, created.ID, "hijacked", "")

		require.ErrorIs(t, err, apperrors.ErrPostNotOwned)
	})

	t.Run("delete by stranger fails", func(t *testing.T) {
		s := NewService(newFakePostRepo())

		created, err := s.Create(t.Context(), author, "title", "content")
		require.NoError(t, err)

		err = s.Delete(t.Context(), stranger, created.ID)
		require.ErrorIs(t, err, apperrors.ErrPostNotOwned)

		err = s.Delete(t.Context(), author, created.ID)
		require.NoError(t, err)

		_, err = s.Get(t.Context(), created.ID)
		require.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})
}
