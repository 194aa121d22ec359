package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/models"
	"github.com/postchan/postchan/internal/repository"
)

const (
	defaultAccessTokenTTL = 2 * time.Hour

	// Refresh tokens live six months
	defaultRefreshTokenTTL = 6 * 30 * 24 * time.Hour
)

// Failure reasons returned to the user. The login message deliberately
// does not say which of the two fields is wrong, so an attacker can't
// enumerate registered emails through it.
const (
	reasonUserExists       = "user already exists"
	reasonUserNotExist     = "user does not exist"
	reasonBadCredentials   = "login/password combination is invalid"
	reasonInvalidToken     = "invalid token"
	reasonTokenNotExpired  = "token hasn't expired yet"
	reasonRefreshNotExist  = "refresh token does not exist"
	reasonRefreshExpired   = "refresh token has expired"
	reasonRefreshRevoked   = "refresh token has been invalidated"
	reasonRefreshUsed      = "refresh token has been used"
	reasonRefreshJTIWrong  = "refresh token does not match this JWT"
	reasonRefreshUserIsNil = "user is null"
)

// CredentialStore verifies and creates user records. Implemented by
// service/user; tests may substitute their own.
type CredentialStore interface {
	// Must return apperrors.ErrUserNotFound when no user exists
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Must return *user.ValidationError with verbatim reasons when the
	// password is rejected by policy
	CreateUser(ctx context.Context, email string, password string) (models.User, error)

	// Must return apperrors.ErrInvalidCredentials on mismatch
	CheckPassword(ctx context.Context, user models.User, password string) error
}

// validationError matches user.ValidationError without importing the
// package, to keep the dependency one way
type validationError interface {
	error
	ValidationReasons() []string
}

type Config struct {
	// Secret key to sign access tokens. Required.
	SecretKey string

	// Access and refresh token lifetimes
	// If not set the defaults are used
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service implements register, login and refresh token exchange.
//
// Every method returns (models.AuthResult, error). Business failures
// (wrong password, replayed refresh token and so on) come back inside
// AuthResult.Errors with a nil error; a non-nil error always means the
// storage layer failed and the caller should treat it as infrastructure
// trouble, not as a rejected request.
type Service struct {
	token      TokenManager
	users      CredentialStore
	refresh    repository.RefreshTokenRepo
	refreshTTL time.Duration
}

func NewService(cfg Config, users CredentialStore, refreshRepo repository.RefreshTokenRepo) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if users == nil || refreshRepo == nil {
		return nil, errors.New("credential store and refresh repo must not be nil")
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTokenTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTokenTTL, defaultRefreshTokenTTL)

	return &Service{
		token:      NewTokenManager(cfg.SecretKey, cfg.AccessTokenTTL),
		users:      users,
		refresh:    refreshRepo,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (s *Service) Register(ctx context.Context, email string, password string) (models.AuthResult, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.AuthFailure(reasonUserExists), nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return models.AuthResult{}, fmt.Errorf("can't look up user. Err: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, password)
	if err != nil {
		var vErr validationError
		switch {
		case errors.As(err, &vErr):
			return models.AuthFailure(vErr.ValidationReasons()...), nil
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			// Lost the race with a concurrent registration for the same email
			return models.AuthFailure(reasonUserExists), nil
		}
		return models.AuthResult{}, fmt.Errorf("can't create user. Err: %w", err)
	}

	return s.issuePair(ctx, user)
}

func (s *Service) Login(ctx context.Context, email string, password string) (models.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return models.AuthFailure(reasonUserNotExist), nil
	case err != nil:
		return models.AuthResult{}, fmt.Errorf("can't look up user. Err: %w", err)
	}

	if err := s.users.CheckPassword(ctx, user, password); err != nil {
		return models.AuthFailure(reasonBadCredentials), nil
	}

	return s.issuePair(ctx, user)
}

// Refresh exchanges an expired access token plus its paired single-use
// refresh token for a fresh pair.
//
// The access token must have actually expired: refreshing while it is
// still valid is rejected on purpose, silent renewal of a live token is
// not wanted here. The checks on the ledger row run in a fixed order so
// every distinct failure has its own reason.
func (s *Service) Refresh(ctx context.Context, access string, refreshString string) (models.AuthResult, error) {
	claims, err := s.token.ParseIgnoringExpiry(access)
	if err != nil {
		return models.AuthFailure(reasonInvalidToken), nil
	}

	if claims.ExpiresAt == nil {
		return models.AuthFailure(reasonInvalidToken), nil
	}
	if claims.ExpiresAt.After(time.Now()) {
		return models.AuthFailure(reasonTokenNotExpired), nil
	}

	stored, err := s.refresh.Get(ctx, refreshString)
	switch {
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		return models.AuthFailure(reasonRefreshNotExist), nil
	case err != nil:
		return models.AuthResult{}, fmt.Errorf("can't read refresh token. Err: %w", err)
	}

	now := time.Now()
	switch {
	case stored.ExpiresAt.Before(now):
		return models.AuthFailure(reasonRefreshExpired), nil
	case stored.Invalidated:
		return models.AuthFailure(reasonRefreshRevoked), nil
	case stored.Used:
		return models.AuthFailure(reasonRefreshUsed), nil
	case stored.JWTID != claims.ID:
		return models.AuthFailure(reasonRefreshJTIWrong), nil
	}

	// Conditional update: when two redemptions of the same token race,
	// both read used=false above but only one flips the flag here.
	err = s.refresh.MarkUsed(ctx, refreshString)
	switch {
	case errors.Is(err, apperrors.ErrRefreshTokenIsUsed):
		return models.AuthFailure(reasonRefreshUsed), nil
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		return models.AuthFailure(reasonRefreshNotExist), nil
	case err != nil:
		return models.AuthResult{}, fmt.Errorf("can't mark refresh token used. Err: %w", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.AuthFailure(reasonRefreshUserIsNil), nil
	}

	user, err := s.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return models.AuthFailure(reasonRefreshUserIsNil), nil
	case err != nil:
		return models.AuthResult{}, fmt.Errorf("can't look up user. Err: %w", err)
	}

	return s.issuePair(ctx, user)
}

// GetUser validates the access token in full (expiry included) and
// returns the user it names. Used by the HTTP auth middleware.
func (s *Service) GetUser(ctx context.Context, access string) (models.User, error) {
	claims, err := s.token.Parse(access)
	if err != nil {
		return models.User{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("malformed user id claim. Err: %w", err)
	}

	return s.users.FindByID(ctx, userID)
}

// issuePair is the shared issuance step: sign an access token, bind a
// brand new refresh token to its jti and persist the ledger row. The
// row is written before success is returned, so a ledger failure means
// the whole operation failed and the signed token is discarded.
func (s *Service) issuePair(ctx context.Context, user models.User) (models.AuthResult, error) {
	access, jwtID, err := s.token.Issue(user)
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	// Opaque random refresh token, 32 bytes
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return models.AuthResult{}, fmt.Errorf("error while generating refresh token. Err: %w", err)
	}
	refresh := hex.EncodeToString(b)

	now := time.Now().Truncate(time.Second)
	err = s.refresh.Save(ctx, models.RefreshToken{
		Token:     refresh,
		JWTID:     jwtID,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	})
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.AuthSuccess(access, refresh), nil
}
