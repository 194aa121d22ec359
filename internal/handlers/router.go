package handlers

import (
	"net/http"

	"github.com/postchan/postchan/internal/handlers/middleware"
	"github.com/postchan/postchan/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	auth identityService,
	authMW func(http.Handler) http.Handler,
	posts postService,
	l logger.Logger,
) http.Handler {
	apiv1 := http.NewServeMux()

	apiv1.Handle("POST /identity/register", handleRegister(auth, l))
	apiv1.Handle("POST /identity/login", handleLogin(auth, l))
	apiv1.Handle("POST /identity/refresh", handleRefresh(auth, l))

	apiv1.Handle("GET /posts", handleListPosts(posts, l))
	apiv1.Handle("GET /posts/{postID}", handleGetPost(posts, l))
	apiv1.Handle("POST /posts", authMW(handleCreatePost(posts, l)))
	apiv1.Handle("PUT /posts/{postID}", authMW(handleUpdatePost(posts, l)))
	apiv1.Handle("DELETE /posts/{postID}", authMW(handleDeletePost(posts, l)))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", apiv1))

	return chain(root,
		middleware.Logger(l),
	)
}
