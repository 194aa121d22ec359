package user

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/postchan/postchan/internal/apperrors"
	"github.com/postchan/postchan/internal/models"
	"github.com/postchan/postchan/internal/repository"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// ValidationError carries every reason a new account was rejected.
// The reasons are meant to be shown to the user verbatim.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "user validation failed: " + strings.Join(e.Reasons, "; ")
}

// ValidationReasons lets consumers pick the reasons up through errors.As
// without depending on this package
func (e *ValidationError) ValidationReasons() []string {
	return e.Reasons
}

// Service is the credential store: it owns user records and password
// verification. The auth service never sees a password hash.
type Service struct {
	hasher   PasswordHasher
	userRepo repository.UserRepo
}

func NewService(hasher PasswordHasher, userRepo repository.UserRepo) *Service {
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &Service{
		hasher:   hasher,
		userRepo: userRepo,
	}
}

func (s *Service) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

func (s *Service) FindByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *Service) CreateUser(ctx context.Context, email string, password string) (models.User, error) {
	var user models.User

	if reasons := validatePassword(password); len(reasons) > 0 {
		return user, &ValidationError{Reasons: reasons}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	return s.userRepo.CreateUser(ctx, email, hash)
}

// CheckPassword returns apperrors.ErrInvalidCredentials on mismatch
func (s *Service) CheckPassword(ctx context.Context, user models.User, password string) error {
	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}

func validatePassword(password string) []string {
	var reasons []string

	if len(password) < 8 {
		reasons = append(reasons, "password must be at least 8 characters long")
	}

	hasDigit := false
	for _, r := range password {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		reasons = append(reasons, "password must contain at least one digit")
	}

	return reasons
}
