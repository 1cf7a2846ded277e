package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/lms-accounts/docs"
	"github.com/sbilibin2017/lms-accounts/internal/config"
	"github.com/sbilibin2017/lms-accounts/internal/handlers"
	"github.com/sbilibin2017/lms-accounts/internal/hasher"
	"github.com/sbilibin2017/lms-accounts/internal/jwt"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/mailer"
	"github.com/sbilibin2017/lms-accounts/internal/middlewares"
	"github.com/sbilibin2017/lms-accounts/internal/repositories"
	"github.com/sbilibin2017/lms-accounts/internal/services"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBuildInfo()
			return run(cmd.Context(), a.cfg)
		},
	}
}

// openDB connects to PostgreSQL and applies pool settings.
func openDB(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	return db, nil
}

// openCache connects to Redis. A nil cache is returned when Redis is not configured.
func openCache(ctx context.Context, cfg config.RedisConfig) (services.AuthTokenCache, func() error, error) {
	if cfg.Host == "" {
		logger.Log.Infow("Redis not configured, token cache disabled")
		return nil, func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis connection error: %w", err)
	}
	return repositories.NewAuthTokenCacheRepository(rdb, cfg.Exp), rdb.Close, nil
}

// newRouter wires repositories, services and handlers onto a chi router.
func newRouter(
	db *sqlx.DB,
	cache services.AuthTokenCache,
	mail services.Mailer,
	cfg *config.Config,
) (chi.Router, *services.PasswordResetService) {
	userReadRepo := repositories.NewUserReadRepository(db, middlewares.GetTxFromContext)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext)
	tokenRepo := repositories.NewAuthTokenRepository(db, middlewares.GetTxFromContext)

	bcryptHasher := hasher.New(0)
	resetTokens := jwt.New(
		jwt.WithSecretKey(cfg.Auth.SecretKey),
		jwt.WithExpiration(cfg.Auth.ResetTokenExp),
	)

	authService := services.NewAuthService(
		userReadRepo, userWriteRepo, tokenRepo, cache, bcryptHasher,
		services.WithAfterCommit(middlewares.AfterCommit),
	)
	resetService := services.NewPasswordResetService(
		userReadRepo, userWriteRepo, bcryptHasher, resetTokens, mail,
		services.WithSender(cfg.Mail.From),
		services.WithMailTimeout(cfg.Mail.Timeout),
		services.WithConfirmPath(cfg.Auth.ResetPathPrefix),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	r.Get("/", handlers.NewIndexHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Read-only; runs on the pool outside any transaction.
	r.Post("/password-reset/", handlers.NewPasswordResetHandler(resetService, cfg.App.PublicURL))

	r.Group(func(r chi.Router) {
		r.Use(middlewares.TxMiddleware(db))

		r.Post("/signup/", handlers.NewSignupHandler(authService))
		r.Post("/login/", handlers.NewLoginHandler(authService))
		r.Post(cfg.Auth.ResetPathPrefix+"/{uid}/{token}/", handlers.NewPasswordResetConfirmHandler(resetService))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(authService))
			r.Post("/logout/", handlers.NewLogoutHandler(authService))
		})
	})

	return r, resetService
}

// run initializes the database, cache, mailer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Log.Infow("Connected to PostgreSQL", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB)

	cache, closeCache, err := openCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeCache()

	mail, err := mailer.New(cfg.Mail)
	if err != nil {
		return err
	}
	defer mail.Close()

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)

	r, resetService := newRouter(db, cache, mail, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	resetService.Wait()
	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
