package post

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/models"
	"github.com/postchan/postchan/internal/repository"
)

// Service is a thin layer over the post repository. The only business
// rule it owns is that updates and deletes are restricted to the author.
type Service struct {
	postRepo repository.PostRepo
}

func NewService(postRepo repository.PostRepo) *Service {
	return &Service{postRepo: postRepo}
}

func (s *Service) Create(ctx context.Context, user models.User, title string, content string) (models.Post, error) {
	post, err := s.postRepo.CreatePost(ctx, user.ID, title, content)
	if err != nil {
		return post, fmt.Errorf("can't create post. Err: %w", err)
	}

	return post, nil
}

func (s *Service) Get(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	return s.postRepo.GetPost(ctx, postID)
}

func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.ListPosts(ctx)
}

func (s *Service) Update(ctx context.Context, user models.User, postID uuid.UUID, title string, content string) (models.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return post, err
	}

	if post.UserID != user.ID {
		return post, apperrors.ErrPostNotOwned
	}

	return s.postRepo.UpdatePost(ctx, postID, title, content, time.Now())
}

func (s *Service) Delete(ctx context.Context, user models.User, postID uuid.UUID) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != user.ID {
		return apperrors.ErrPostNotOwned
	}

	return s.postRepo.DeletePost(ctx, postID)
}
