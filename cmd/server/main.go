package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/kontribute/kontribute-backend/internal/config"
	"github.com/kontribute/kontribute-backend/internal/db"
	"github.com/kontribute/kontribute-backend/internal/goroutine"
	"github.com/kontribute/kontribute-backend/internal/http/handlers"
	httpRouter "github.com/kontribute/kontribute-backend/internal/http/router"
	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/metrics"
	"github.com/kontribute/kontribute-backend/internal/repository"
	"github.com/kontribute/kontribute-backend/internal/service"
	"github.com/kontribute/kontribute-backend/internal/storage"
	"github.com/kontribute/kontribute-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: load config: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	metrics.Init()

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: connect to database")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("main: run migrations")
	}

	proofStorage, err := storage.NewProofStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: prepare media storage")
	}

	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	collectionRepo := repository.NewCollectionRepository(dbConn)
	contributorRepo := repository.NewContributorRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)

	collectionService := service.NewCollectionService(collectionRepo, contributorRepo, transactionRepo, withdrawalRepo)
	contributionService := service.NewContributionService(
		collectionRepo,
		contributorRepo,
		proofStorage,
		service.NewLogNotifier(cfg.PublicBaseURL),
		hub,
	)
	withdrawalService := service.NewWithdrawalService(collectionRepo, withdrawalRepo, hub)
	withdrawalService.SetRecordWithdrawals(cfg.RecordWithdrawals)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Collection:   handlers.NewCollectionHandler(collectionService, cfg.PublicBaseURL),
		Contribution: handlers.NewContributionHandler(contributionService, proofStorage.MaxUploadBytes(), "/media/"),
		Withdrawal:   handlers.NewWithdrawalHandler(withdrawalService),
		Webhook:      handlers.NewWebhookHandler(),
		Health:       handlers.NewHealthHandler(dbConn),
		WS:           handlers.NewWSHandler(hub, collectionService, cfg.AllowedOrigins),
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: http server shutdown")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port": cfg.HTTPPort,
		"env":  cfg.Env,
	}).Info("main: http server started")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("main: http server stopped")
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: close database")
	}
}
