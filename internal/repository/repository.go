package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/postchan/postchan/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error)

	// Get user by its id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// RefreshToken ledger interface
type RefreshTokenRepo interface {
	// Persist a new ledger row
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the row whatever state it is in (used, invalidated, expired)
	// If no row exists must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Flip used from false to true. The update is conditional: if the row
	// is already used zero rows are affected and apperrors.ErrRefreshTokenIsUsed
	// is returned, so of two concurrent redemptions exactly one wins.
	MarkUsed(ctx context.Context, tokenString string) error

	// Mark token permanently unusable (administrative revocation)
	Invalidate(ctx context.Context, tokenString string) error

	// Invalidate every token of the user that is still redeemable
	InvalidateForUser(ctx context.Context, userID uuid.UUID) (count int64, err error)
}

// Post repository interface
type PostRepo interface {
	CreatePost(ctx context.Context, userID uuid.UUID, title string, content string) (models.Post, error)

	// If post not found must return apperrors.ErrPostNotFound
	GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, title string, content string, updatedAt time.Time) (models.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
}

// Storage aggregates every repository over a single connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Post() PostRepo

	// Run fn with a Storage bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(s Storage) error) error
}
