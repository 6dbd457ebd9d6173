// Command todo-api starts the todo REST API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/todo-api/internal/cache"
	"github.com/and161185/todo-api/internal/config"
	"github.com/and161185/todo-api/internal/migrate"
	"github.com/and161185/todo-api/internal/repository/cached"
	"github.com/and161185/todo-api/internal/repository/postgres"
	httpserver "github.com/and161185/todo-api/internal/server/http"
	"github.com/and161185/todo-api/internal/service"
	"github.com/and161185/todo-api/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.HTTP.Addr()),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DB.URL, logger); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DB.URL, postgres.PoolConfig{
		MinConns:       cfg.DB.MinConns,
		MaxConns:       cfg.DB.MaxConns,
		ConnectTimeout: cfg.DB.ConnectTimeout,
		AcquireTimeout: cfg.DB.AcquireTimeout,
		MaxConnIdle:    cfg.DB.MaxConnIdle,
	})
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Cache (degrades to a no-op when Redis is absent)
	cch := cache.New(ctx, cfg.Redis.URL, logger)
	defer func() { _ = cch.Close() }()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	todoRepo := cached.NewTodoRepo(postgres.NewTodoRepo(db), cch, cfg.Redis.TTL)

	// Token manager
	tokens, err := token.NewManager(
		[]byte(cfg.Auth.AccessSecret),
		[]byte(cfg.Auth.RefreshSecret),
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)
	if err != nil {
		logger.Fatal("token.NewManager", zap.Error(err))
	}

	// Services
	authSvc := service.NewAuthService(userRepo, tokens)
	todoSvc := service.NewTodoService(todoRepo)

	// HTTP server
	app := httpserver.New(authSvc, todoSvc, tokens, logger, httpserver.Opts{
		CookieDomain:  cfg.Cookie.Domain,
		CookieSecure:  cfg.Cookie.Secure,
		CSRFSkipPaths: cfg.CSRF.SkipPaths,
	})
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      app.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
