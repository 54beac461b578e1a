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

	"github.com/ikkim/clientbook-backend/config"
	"github.com/ikkim/clientbook-backend/internal/app/controller"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	"github.com/ikkim/clientbook-backend/internal/db"
	"github.com/ikkim/clientbook-backend/internal/router"
	"github.com/ikkim/clientbook-backend/internal/scheduler"
	"github.com/ikkim/clientbook-backend/internal/storage"
	"github.com/ikkim/clientbook-backend/internal/websocket"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"github.com/ikkim/clientbook-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := cfg.Log.Level
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Clientbook Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Summary cache (optional)
	var cache service.SummaryCache
	if cfg.Redis.Host != "" {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, summary cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewJSONCache(redis.GetClient(), "clientbook:")
			defer redis.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	conn := db.GetDB()
	clientRepo := repository.NewClientRepository(conn)
	benefitRepo := repository.NewBenefitRepository(conn)
	commercialRepo := repository.NewCommercialRepository(conn)
	feedbackRepo := repository.NewFeedbackRepository(conn)

	// Initialize services
	summaryService := service.NewSummaryService(clientRepo, benefitRepo, commercialRepo, cache, cfg.Redis.SummaryTTL)
	notifier := service.Notifiers{hub, summaryService}

	clientService := service.NewClientService(conn, clientRepo, notifier)
	benefitService := service.NewBenefitService(conn, clientRepo, benefitRepo, notifier)
	commercialService := service.NewCommercialService(conn, clientRepo, commercialRepo, notifier)
	feedbackService := service.NewFeedbackService(feedbackRepo, notifier)
	exportService := service.NewExportService(conn, clientRepo, benefitRepo, commercialRepo)
	importService := service.NewImportService(conn, clientRepo, benefitRepo, commercialRepo, notifier)

	// Setup router
	r := router.NewRouter(
		controller.NewClientController(clientService),
		controller.NewBenefitController(benefitService),
		controller.NewCommercialController(commercialService),
		controller.NewFeedbackController(feedbackService),
		controller.NewTransferController(exportService, importService, cfg.Import.MaxUploadMB),
		controller.NewSummaryController(summaryService),
		controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// In-process backups
	var backups *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		var archive scheduler.Archive
		if cfg.S3.Bucket != "" {
			archive = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.Prefix)
		}
		backups = scheduler.NewBackupScheduler(cfg.Backup, archive)
		if err := backups.Start(); err != nil {
			logger.Error("Backup scheduler not started", err)
			backups = nil
		}
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if backups != nil {
		backups.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	cancel()

	logger.Info("Server stopped successfully")
}
