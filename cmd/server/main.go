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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/tailor-booking/internal/booking"
	"github.com/iliyamo/tailor-booking/internal/catalog"
	"github.com/iliyamo/tailor-booking/internal/config"
	"github.com/iliyamo/tailor-booking/internal/database"
	"github.com/iliyamo/tailor-booking/internal/handler"
	"github.com/iliyamo/tailor-booking/internal/metrics"
	"github.com/iliyamo/tailor-booking/internal/queue"
	"github.com/iliyamo/tailor-booking/internal/repository"
	"github.com/iliyamo/tailor-booking/internal/router"
	"github.com/iliyamo/tailor-booking/internal/seed"
	"github.com/iliyamo/tailor-booking/internal/service"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		slog.Error("database open failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tailors := repository.NewTailorRepo(db)
	bookings := repository.NewBookingRepo(db)

	if cfg.SeedTestUser {
		created, err := seed.EnsureAccount(ctx, users, seed.TestAccount, cfg.BcryptCost)
		if err != nil {
			slog.Warn("test user not created", "err", err)
		} else if created {
			slog.Info("test user created", "email", seed.TestAccount.Email)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	amqpURL := config.AMQPURL()
	publisher := service.NewPublisher(amqpURL)
	defer publisher.Close()

	if cfg.ConsumerEnabled {
		go func() {
			if err := queue.NewConsumer(amqpURL).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("booking consumer stopped", "err", err)
			}
		}()
	}

	loc := cfg.Location()
	m := metrics.New(prometheus.DefaultRegisterer)
	designs := catalog.NewFileCatalog(cfg.DesignsPath, cfg.CatalogCache)

	e := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Catalog:   handler.NewCatalogHandler(designs, tailors),
		Bookings:  handler.NewBookingHandler(bookings, booking.NewValidator(loc), designs, publisher, m, loc),
		DB:        db,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		JWTSecret: cfg.JWTSecret,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
	})

	go func() {
		addr := ":" + cfg.Port
		slog.Info("listening", "addr", addr, "env", cfg.Env, "designs", cfg.DesignsPath)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}
