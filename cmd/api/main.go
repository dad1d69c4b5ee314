package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/authgate/authgate-go/internal/config"
	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/handler"
	"github.com/authgate/authgate-go/internal/repository"
	"github.com/authgate/authgate-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repository.EnsureSchema(schemaCtx, db); err != nil {
		slog.Warn("schema check failed — requests touching users will fail until the database is reachable", "error", err)
	}
	cancelSchema()

	tokens := crypto.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	hasher := crypto.NewPasswordHasher(cfg.Bcrypt.Cost)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, hasher, tokens)
	authHandler := handler.NewAuthHandler(authService)
	errHandler := handler.NewErrorHandler(cfg.IsDevelopment(), slog.Default())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.NewRouter(authHandler, tokens, errHandler),
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
