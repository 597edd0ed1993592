// Command seed resets the tailors table to the sample staff and creates the
// demo account when no user exists.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/iliyamo/tailor-booking/internal/config"
	"github.com/iliyamo/tailor-booking/internal/database"
	"github.com/iliyamo/tailor-booking/internal/repository"
	"github.com/iliyamo/tailor-booking/internal/seed"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	if err := run(cfg); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	slog.Info("database seeding completed")
}

func run(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	created, err := seed.EnsureAccount(ctx, repository.NewUserRepo(db), seed.DemoAccount, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if created {
		slog.Info("demo user created", "email", seed.DemoAccount.Email)
	} else {
		slog.Info("users table already has data, skipping demo user")
	}

	ts, err := seed.Tailors(ctx, repository.NewTailorRepo(db))
	if err != nil {
		return err
	}
	slog.Info("tailors seeded", "count", len(ts))
	return nil
}
