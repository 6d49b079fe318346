package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"kanban_backend/internal/app/config"
	"kanban_backend/internal/app/seed"
	ticketadapters "kanban_backend/internal/feature/tickets/adapters"
	ticketusecase "kanban_backend/internal/feature/tickets/usecase"
	useradapters "kanban_backend/internal/feature/users/adapters"
	userusecase "kanban_backend/internal/feature/users/usecase"
	platformdb "kanban_backend/internal/platform/db"
	"kanban_backend/internal/platform/logging"
	"kanban_backend/internal/platform/password"
)

func main() {
	reset := pflag.Bool("reset", false, "drop and recreate the tables before seeding")
	envFile := pflag.String("env-file", ".env", "dotenv file to load")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(os.Stdout, cfg.LogLevel, "text")

	db, err := platformdb.Open(cfg.DB, cfg.DBConnectTimeout)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if *reset {
		err = platformdb.Reset(db)
	} else {
		err = platformdb.Migrate(db)
	}
	if err != nil {
		slog.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}

	// キャッシュは経由せずDBへ直接書き込む
	userRepo := useradapters.NewUserRepository(db)
	userUC := userusecase.NewUserUsecase(userRepo, password.NewHasher(0))
	ticketUC := ticketusecase.NewTicketUsecase(ticketadapters.NewTicketRepository(db), userRepo)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed.Run(ctx, userUC, userRepo, ticketUC); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}
