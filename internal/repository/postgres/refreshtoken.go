package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (token, jwt_id, user_id, created_at, expires_at, used, invalidated)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) error {
	_, err := r.DB.Exec(ctx, saveToken,
		token.Token, token.JWTID, token.UserID, token.CreatedAt, token.ExpiresAt, token.Used, token.Invalidated)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getToken = `-- name: GetRefreshToken by the token string itself
SELECT jwt_id, user_id, created_at, expires_at, used, invalidated
FROM refresh_tokens
WHERE token = $1
`

// Get the ledger row for tokenString
// Returns the row even if it is expired, used or invalidated
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getToken, tokenString)
	token, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.RefreshToken, error) {
		t := models.RefreshToken{Token: tokenString}
		err := row.Scan(&t.JWTID, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.Used, &t.Invalidated)
		return t, err
	})

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const markTokenUsed = `-- name: MarkRefreshTokenUsed only if it is not used yet
UPDATE refresh_tokens
SET used = TRUE
WHERE token = $1 AND used = FALSE
`

// Mark token as used
// The WHERE clause makes the update conditional: when two redemptions race,
// the affected row count decides which one actually flipped the flag.
// The loser gets apperrors.ErrRefreshTokenIsUsed.
func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, tokenString string) error {
	tag, err := r.DB.Exec(ctx, markTokenUsed, tokenString)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the row is already used or it never existed. Callers look
		// the row up first, so losing the conditional update means used.
		_, err := r.Get(ctx, tokenString)
		if err != nil {
			return err
		}
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenIsUsed)
	}

	return nil
}

const invalidateToken = `-- name: InvalidateRefreshToken
UPDATE refresh_tokens
SET invalidated = TRUE
WHERE token = $1 AND invalidated = FALSE
`

func (r *RefreshTokenRepo) Invalidate(ctx context.Context, tokenString string) error {
	tag, err := r.DB.Exec(ctx, invalidateToken, tokenString)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		_, err := r.Get(ctx, tokenString)
		if err != nil {
			return err
		}
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenInvalidated)
	}

	return nil
}

const invalidateForUser = `-- name: InvalidateRefreshTokensForUser
UPDATE refresh_tokens
SET invalidated = TRUE
WHERE user_id = $1 AND used = FALSE AND invalidated = FALSE
`

// Invalidate every still redeemable token of the user, e.g. on a
// suspected account compromise. Returns how many rows were revoked.
func (r *RefreshTokenRepo) InvalidateForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, invalidateForUser, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}
