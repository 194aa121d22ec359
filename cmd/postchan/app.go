package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/postchan/postchan/internal/db"
	"github.com/postchan/postchan/internal/handlers"
	"github.com/postchan/postchan/internal/handlers/middleware"
	"github.com/postchan/postchan/internal/logger"
	"github.com/postchan/postchan/internal/repository/postgres"
	"github.com/postchan/postchan/internal/service/auth"
	"github.com/postchan/postchan/internal/service/post"
	"github.com/postchan/postchan/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	userService := user.NewService(user.DefaultHasher, storage.User())
	authService, err := auth.NewService(
		auth.Config{
			SecretKey:      c.SecretKey,
			AccessTokenTTL: c.AccessTokenTTL,
		},
		userService,
		storage.Refresh(),
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	postService := post.NewService(storage.Post())

	mux := handlers.NewRouter(
		authService,
		middleware.Auth(authService),
		postService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     log,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close connections gracefully
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
