package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"owl-league/packages/core/models"
	"owl-league/storage"

	"gorm.io/gorm"
)

const snapshotPrefix = "league-"

type BackupService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewBackupService(db *gorm.DB, logger *slog.Logger) *BackupService {
	return &BackupService{db: db, logger: logger}
}

// Snapshot reads all league tables in one transaction so the export is
// consistent.
func (s *BackupService) Snapshot(ctx context.Context) (*models.Backup, error) {
	backup := &models.Backup{ExportedAt: time.Now().UTC()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&backup.Players).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&backup.Matches).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&backup.Attendance).Error; err != nil {
			return err
		}
		var keys []models.WeekKey
		if err := tx.Order("id ASC").Find(&keys).Error; err != nil {
			return err
		}
		backup.WeekKeys = make([]models.BackupKey, 0, len(keys))
		for _, k := range keys {
			backup.WeekKeys = append(backup.WeekKeys, models.BackupKey{Week: k.Week, ResultsPassword: k.ResultsPassword})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// Export uploads a snapshot as JSON under prefix, named by export time.
func (s *BackupService) Export(ctx context.Context, uploader storage.Uploader, prefix string) (*storage.UploadResult, error) {
	backup, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	key := path.Join(prefix, fmt.Sprintf("%s%s.json", snapshotPrefix, backup.ExportedAt.Format("20060102-150405")))
	result, err := uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	s.logger.Info("backup uploaded",
		slog.String("key", result.Key),
		slog.Int("players", len(backup.Players)),
		slog.Int("matches", len(backup.Matches)),
	)
	return result, nil
}

// Prune deletes all but the newest keep snapshots under prefix and returns
// the deleted keys. Snapshot names sort by export time. Other objects under
// prefix are left alone.
func (s *BackupService) Prune(ctx context.Context, uploader storage.Uploader, prefix string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1, got %d", keep)
	}

	keys, err := uploader.List(ctx, path.Join(prefix, snapshotPrefix))
	if err != nil {
		return nil, err
	}
	snapshots := keys[:0]
	for _, key := range keys {
		if strings.HasPrefix(path.Base(key), snapshotPrefix) && strings.HasSuffix(key, ".json") {
			snapshots = append(snapshots, key)
		}
	}
	if len(snapshots) <= keep {
		return nil, nil
	}
	sort.Strings(snapshots)

	stale := snapshots[:len(snapshots)-keep]
	deleted := make([]string, 0, len(stale))
	for _, key := range stale {
		if err := uploader.Delete(ctx, key); err != nil {
			return deleted, err
		}
		deleted = append(deleted, key)
	}

	s.logger.Info("old backups pruned", slog.Int("deleted", len(deleted)), slog.Int("kept", keep))
	return deleted, nil
}
