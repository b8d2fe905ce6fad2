package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/platform/postgres"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	log := logger.New(os.Getenv("LOG_LEVEL"))

	if err := run(context.Background(), log, *command, *name); err != nil {
		log.Error("migration failed", slog.String("command", *command), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, command, name string) error {
	dir := migrationsDir()

	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return err
		}
		log.Info("migration created", slog.String("name", name))
		return nil
	}

	switch command {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}

	dsn := databaseDSN()
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	log = log.With(slog.String("dsn", config.RedactDSN(dsn)), slog.String("dir", dir))
	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return err
		}
		log.Info("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return err
		}
		log.Info("migration rolled back")
	case "status":
		return goose.StatusContext(ctx, db, dir)
	}
	return nil
}
