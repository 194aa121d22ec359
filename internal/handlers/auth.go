package handlers

import (
	"context"
	"net/http"

	"github.com/postchan/postchan/internal/handlers/render"
	"github.com/postchan/postchan/internal/logger"
	"github.com/postchan/postchan/internal/models"
)

type identityService interface {
	Register(ctx context.Context, email string, password string) (models.AuthResult, error)
	Login(ctx context.Context, email string, password string) (models.AuthResult, error)
	Refresh(ctx context.Context, access string, refresh string) (models.AuthResult, error)
}

type authSuccessResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type authFailedResponse struct {
	Errors []string `json:"errors"`
}

func handleRegister(auth identityService, l logger.Logger) http.Handler {
	type registerRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[registerRequest](w, r)
		if err != nil {
			return
		}

		result, err := auth.Register(r.Context(), data.Email, data.Password)
		if err != nil {
			l.Error("register failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		renderAuthResult(w, result, http.StatusBadRequest)
	})
}

func handleLogin(auth identityService, l logger.Logger) http.Handler {
	type loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[loginRequest](w, r)
		if err != nil {
			return
		}

		result, err := auth.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			l.Error("login failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		renderAuthResult(w, result, http.StatusUnauthorized)
	})
}

func handleRefresh(auth identityService, l logger.Logger) http.Handler {
	type refreshRequest struct {
		Token        string `json:"token" validate:"required"`
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[refreshRequest](w, r)
		if err != nil {
			return
		}

		result, err := auth.Refresh(r.Context(), data.Token, data.RefreshToken)
		if err != nil {
			l.Error("refresh failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		renderAuthResult(w, result, http.StatusUnauthorized)
	})
}

func renderAuthResult(w http.ResponseWriter, result models.AuthResult, failStatus int) {
	if !result.Succeeded {
		render.JSONWithStatus(w, authFailedResponse{Errors: result.Errors}, failStatus)
		return
	}

	render.JSON(w, authSuccessResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}
