package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ikkim/clientbook-backend/config"
	"github.com/ikkim/clientbook-backend/internal/spreadsheet"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	backupPrefix = "Client_Data_Backup_"
	backupExt    = ".xlsx"
)

// Archive receives a copy of every backup. *storage.S3Storage satisfies it.
type Archive interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Prune(ctx context.Context, keep int) (int, error)
}

// BackupScheduler saves the export endpoint's workbook on a cron schedule
// and keeps only the newest MaxCount files.
type BackupScheduler struct {
	cron    *cron.Cron
	cfg     config.BackupConfig
	client  *http.Client
	archive Archive
	now     func() time.Time
}

// NewBackupScheduler builds a scheduler. archive may be nil.
func NewBackupScheduler(cfg config.BackupConfig, archive Archive) *BackupScheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0,12 * * *"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	cl := cronLogger{}
	return &BackupScheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		archive: archive,
		now:     time.Now,
	}
}

// Start registers the backup job and starts the cron loop.
func (s *BackupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		logger.Info("Starting scheduled backup", map[string]interface{}{
			"url": s.cfg.APIURL,
		})

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Scheduled backup failed", err)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for backup", err, map[string]interface{}{
			"schedule": s.cfg.Schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Backup scheduler started", map[string]interface{}{
		"schedule":  s.cfg.Schedule,
		"dir":       s.cfg.Dir,
		"max_count": s.cfg.MaxCount,
		"archive":   s.archive != nil,
	})
	return nil
}

// Stop waits for a running backup to finish.
func (s *BackupScheduler) Stop() {
	logger.Info("Stopping backup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Backup scheduler stopped")
}

// RunOnce downloads one workbook, writes it to the backup directory, prunes
// old files and, when an archive is configured, copies it there. It returns
// the path of the written file.
func (s *BackupScheduler) RunOnce(ctx context.Context) (string, error) {
	data, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	filename := backupPrefix + s.now().Format("2006-01-02_1504") + backupExt
	target := filepath.Join(s.cfg.Dir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	logger.Info("Backup written", map[string]interface{}{
		"path":  target,
		"bytes": len(data),
	})

	if s.cfg.MaxCount > 0 {
		removed, err := pruneDir(s.cfg.Dir, s.cfg.MaxCount)
		if err != nil {
			logger.Warn("Failed to prune old backups", map[string]interface{}{
				"dir":   s.cfg.Dir,
				"error": err.Error(),
			})
		} else if removed > 0 {
			logger.Info("Old backups pruned", map[string]interface{}{
				"removed": removed,
			})
		}
	}

	if s.archive != nil {
		if _, err := s.archive.Upload(ctx, filename, spreadsheet.ContentType, data); err != nil {
			return target, err
		}
		if s.cfg.MaxCount > 0 {
			if _, err := s.archive.Prune(ctx, s.cfg.MaxCount); err != nil {
				logger.Warn("Failed to prune archived backups", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return target, nil
}

func (s *BackupScheduler) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build backup request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call export endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("export endpoint returned an empty body")
	}
	return data, nil
}

// pruneDir removes all but the keep most recently modified backup files.
func pruneDir(dir string, keep int) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	type backupFile struct {
		path     string
		modified time.Time
	}
	var files []backupFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		files = append(files, backupFile{path: filepath.Join(dir, name), modified: info.ModTime()})
	}

	if len(files) <= keep {
		return 0, nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modified.Equal(files[j].modified) {
			return files[i].path > files[j].path
		}
		return files[i].modified.After(files[j].modified)
	})

	removed := 0
	for _, f := range files[keep:] {
		if err := os.Remove(f.path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// cronLogger routes cron's own messages through pkg/logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, err, kvFields(keysAndValues))
}

func kvFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
