package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/clientbook-backend/config"
	"github.com/ikkim/clientbook-backend/internal/scheduler"
	"github.com/ikkim/clientbook-backend/internal/storage"
	"github.com/ikkim/clientbook-backend/pkg/logger"
)

// Runs the backup job as its own process, next to the API server.
// With -once it takes a single backup and exits.
func main() {
	once := flag.Bool("once", false, "take one backup and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	var archive scheduler.Archive
	if cfg.S3.Bucket != "" {
		archive = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.Prefix)
	}
	backups := scheduler.NewBackupScheduler(cfg.Backup, archive)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backup.Timeout)
		defer cancel()

		path, err := backups.RunOnce(ctx)
		if err != nil {
			logger.Fatal("Backup failed", err)
		}
		logger.Info("Backup complete", map[string]interface{}{
			"path": path,
		})
		return
	}

	if err := backups.Start(); err != nil {
		logger.Fatal("Failed to start backup scheduler", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	backups.Stop()
}
