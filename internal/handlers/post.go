package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/handlers/render"
	"github.com/postchan/postchan/internal/handlers/userctx"
	"github.com/postchan/postchan/internal/logger"
	"github.com/postchan/postchan/internal/models"
)

type postService interface {
	Create(ctx context.Context, user models.User, title string, content string) (models.Post, error)
	Get(ctx context.Context, postID uuid.UUID) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, user models.User, postID uuid.UUID, title string, content string) (models.Post, error)
	Delete(ctx context.Context, user models.User, postID uuid.UUID) error
}

type postResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type postRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
}

func toPostResponse(p models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func handleCreatePost(posts postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		data, err := render.BindAndValidate[postRequest](w, r)
		if err != nil {
			return
		}

		post, err := posts.Create(r.Context(), user, data.Title, data.Content)
		if err != nil {
			l.Error("create post failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toPostResponse(post), http.StatusCreated)
	})
}

func handleGetPost(posts postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		post, err := posts.Get(r.Context(), postID)
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Post not found", http.StatusNotFound)
		case err != nil:
			l.Error("get post failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			render.JSON(w, toPostResponse(post))
		}
	})
}

func handleListPosts(posts postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list, err := posts.List(r.Context())
		if err != nil {
			l.Error("list posts failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]postResponse, 0, len(list))
		for _, p := range list {
			response = append(response, toPostResponse(p))
		}

		render.JSON(w, response)
	})
}

func handleUpdatePost(posts postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[postRequest](w, r)
		if err != nil {
			return
		}

		post, err := posts.Update(r.Context(), user, postID, data.Title, data.Content)
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrPostNotOwned):
			render.ServiceError(w, "You do not own this post", http.StatusForbidden)
		case err != nil:
			l.Error("update post failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			render.JSON(w, toPostResponse(post))
		}
	})
}

func handleDeletePost(posts postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		err = posts.Delete(r.Context(), user, postID)
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrPostNotOwned):
			render.ServiceError(w, "You do not own this post", http.StatusForbidden)
		case err != nil:
			l.Error("delete post failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
}
