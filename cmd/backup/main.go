package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"owl-league/config"
	"owl-league/database"
	"owl-league/logging"
	"owl-league/packages/core/services"
	"owl-league/storage"
)

func main() {
	stdout := flag.Bool("stdout", false, "write the backup to stdout instead of uploading it")
	keep := flag.Int("keep", 0, "after uploading, delete all but the newest N snapshots (0 keeps everything)")
	flag.Parse()
	if *keep < 0 {
		fmt.Fprintln(os.Stderr, "-keep must not be negative")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	if err := run(cfg, logger, *stdout, *keep); err != nil {
		logger.Error("backup failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, stdout bool, keep int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	backupService := services.NewBackupService(db, logger)

	if stdout || !cfg.Backup.Enabled() {
		if !stdout {
			logger.Warn("BACKUP_* not configured, writing to stdout")
		}
		backup, err := backupService.Snapshot(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(backup)
	}

	uploader, err := storage.NewR2Uploader(ctx, storage.R2Config{
		AccountID:       cfg.Backup.AccountID,
		AccessKeyID:     cfg.Backup.AccessKeyID,
		SecretAccessKey: cfg.Backup.SecretAccessKey,
		BucketName:      cfg.Backup.BucketName,
		PublicBaseURL:   cfg.Backup.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	result, err := backupService.Export(ctx, uploader, cfg.Backup.Prefix)
	if err != nil {
		return err
	}
	logger.Info("backup stored", slog.String("key", result.Key), slog.String("location", result.Location), slog.String("etag", result.ETag))

	if keep > 0 {
		if _, err := backupService.Prune(ctx, uploader, cfg.Backup.Prefix, keep); err != nil {
			return err
		}
	}
	return nil
}
