package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/postchan/postchan/internal/handlers/render"
	"github.com/postchan/postchan/internal/handlers/userctx"
	"github.com/postchan/postchan/internal/models"
)

type authService interface {
	// Validate the access token (expiry enforced) and return its user
	GetUser(ctx context.Context, access string) (models.User, error)
}

// Auth requires a valid bearer access token and puts the authenticated
// user into the request context.
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, ok := bearerToken(r)
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := as.GetUser(r.Context(), access)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
