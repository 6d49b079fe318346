package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"kanban_backend/internal/app/config"
	"kanban_backend/internal/app/di"
	"kanban_backend/internal/app/router"
	platformdb "kanban_backend/internal/platform/db"
	jwtmw "kanban_backend/internal/platform/jwt"
	"kanban_backend/internal/platform/logging"
	platformredis "kanban_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.Open(cfg.DB, cfg.DBConnectTimeout)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if cfg.RunMigrations {
		if err := platformdb.Migrate(db); err != nil {
			return err
		}
		slog.Info("migrations applied")
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET_KEY is not set. Login and protected routes will fail.")
	}

	handlers := di.NewHandlers(db, rdb, di.Settings{
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTTTL,
		UserCacheTTL: cfg.UserCacheTTL,
	})
	engine, err := router.NewRouter(handlers, router.Options{
		Verifier:      jwtmw.NewVerifier(cfg.JWTSecret),
		DB:            sqlDB,
		ClientOrigins: cfg.ClientOrigins,
		StaticDir:     cfg.StaticDir,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
