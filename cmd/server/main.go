package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/openshelf/library-system/internal/api"
	"github.com/openshelf/library-system/internal/core/service"
	"github.com/openshelf/library-system/internal/infrastructure/config"
	dbmongo "github.com/openshelf/library-system/internal/infrastructure/db/mongo"
	dbredis "github.com/openshelf/library-system/internal/infrastructure/db/redis"
	"github.com/openshelf/library-system/internal/infrastructure/queue"
	"github.com/openshelf/library-system/pkg/logger"
)

// @title        Library System API
// @version      1.0
// @description  Library automation service: catalog, borrowing, fines, and dashboards.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- Storage ---
	mongoClient, db, err := dbmongo.Connect(ctx, dbmongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := dbredis.Connect(ctx, dbredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	bookRepo := dbmongo.NewBookRepository(db)
	borrowingRepo := dbmongo.NewBorrowingRepository(db)
	userRepo := dbmongo.NewUserRepository(db)

	if err := bookRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("book indexes failed")
	}
	if err := borrowingRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("borrowing indexes failed")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	catalogService := service.NewCatalogService(bookRepo, log)
	borrowingService := service.NewBorrowingService(
		borrowingRepo,
		bookRepo,
		dbredis.NewBorrowDedup(rdb),
		service.LoanPolicy{
			FinePerDay:  cfg.Loans.FinePerDay,
			DueSoonDays: cfg.Loans.DueSoonDays,
		},
		log,
	)
	dashboardService := service.NewDashboardService(borrowingRepo, cfg.Loans.DueSoonDays, log)

	// --- Background fine accrual ---
	accrual := queue.NewAccrualRunner(borrowingRepo, borrowingService, cfg.Loans.AccrualInterval, log)
	accrual.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Catalog:   catalogService,
		Borrowing: borrowingService,
		Dashboard: dashboardService,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
}
