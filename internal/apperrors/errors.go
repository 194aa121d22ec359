package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("login/password combination is invalid")

	ErrRefreshTokenNotFound    = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed      = errors.New("refresh token is used")
	ErrRefreshTokenInvalidated = errors.New("refresh token is invalidated")

	ErrPostNotFound = errors.New("post not found")
	ErrPostNotOwned = errors.New("post belongs to another user")
)
