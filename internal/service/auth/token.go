package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/postchan/postchan/internal/models"
)

// Claims carried by every access token.
// Registered claims: sub (email), jti, iat, exp.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	UserID string `json:"id"`
}

// TokenManager signs and validates access tokens. It holds no mutable
// state, so a single value is shared between requests.
type TokenManager struct {
	// Secret key to sign access token
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access token lifetime
	accessTTL time.Duration
}

func NewTokenManager(secretKey string, accessTTL time.Duration) TokenManager {
	return TokenManager{
		key:       secretKey,
		alg:       jwt.SigningMethodHS256,
		accessTTL: accessTTL,
	}
}

// Issue signs a new access token for the user.
// Returns the compact token string and its jti, which the caller binds
// to the refresh token issued alongside.
func (m TokenManager) Issue(user models.User) (token string, jwtID string, err error) {
	now := time.Now().Truncate(time.Second)
	jwtID = uuid.NewString()

	accessToken := jwt.NewWithClaims(
		m.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.Email,
				ID:        jwtID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			},
			Email:  user.Email,
			UserID: user.ID.String(),
		},
	)

	token, err = accessToken.SignedString([]byte(m.key))
	if err != nil {
		return "", "", fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return token, jwtID, nil
}

// ParseIgnoringExpiry verifies the signature and structure of the token
// but skips claims validation, so an expired token still parses. A token
// must have expired before it can be exchanged in the refresh flow, hence
// this is the only validation mode the flow needs. Tokens signed with any
// algorithm other than HS256 (including "none") are rejected.
func (m TokenManager) ParseIgnoringExpiry(access string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("error while parsing or validating token. Err: %w", err)
	}

	return claims, nil
}

// Parse verifies the token fully, expiry included. Used by the HTTP
// auth middleware, not by the refresh flow.
func (m TokenManager) Parse(access string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("error while parsing or validating token. Err: %w", err)
	}

	return claims, nil
}
