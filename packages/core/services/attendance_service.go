package services

import (
	"context"
	"log/slog"

	"owl-league/packages/core/models"

	"gorm.io/gorm"
)

type AttendanceService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAttendanceService(db *gorm.DB, logger *slog.Logger) *AttendanceService {
	return &AttendanceService{db: db, logger: logger}
}

// SaveAttendance replaces the attendance of a week with presentIDs. Saving
// the same set twice leaves the same rows; concurrent saves are last writer
// wins.
func (s *AttendanceService) SaveAttendance(ctx context.Context, week string, presentIDs []uint) ([]models.Attendance, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	ids := dedupe(presentIDs)

	rows := make([]models.Attendance, 0, len(ids))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findPlayers(tx, ids); err != nil {
			return err
		}
		if err := tx.Where("week = ?", week).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		for _, id := range ids {
			rows = append(rows, models.Attendance{Week: week, PlayerID: id, Present: true})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance saved", slog.String("week", week), slog.Int("present", len(rows)))
	return rows, nil
}

// ClearAttendance drops the attendance of a week so every active player is
// eligible again.
func (s *AttendanceService) ClearAttendance(ctx context.Context, week string) error {
	if err := validateWeek(week); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("week = ?", week).Delete(&models.Attendance{}).Error
}

func (s *AttendanceService) GetAttendance(ctx context.Context, week string) ([]models.Attendance, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	var rows []models.Attendance
	err := s.db.WithContext(ctx).Where("week = ?", week).Order("player_id ASC").Find(&rows).Error
	return rows, err
}

// EligiblePlayerIDs returns the active players marked present for week, or
// every active player when no attendance was recorded for it.
func (s *AttendanceService) EligiblePlayerIDs(ctx context.Context, week string) ([]uint, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	return eligiblePlayerIDs(s.db.WithContext(ctx), week)
}

func eligiblePlayerIDs(tx *gorm.DB, week string) ([]uint, error) {
	var recorded int64
	if err := tx.Model(&models.Attendance{}).Where("week = ?", week).Count(&recorded).Error; err != nil {
		return nil, err
	}

	var ids []uint
	query := tx.Model(&models.Player{}).Where("active = ?", true)
	if recorded > 0 {
		query = query.Where("id IN (?)",
			tx.Model(&models.Attendance{}).Select("player_id").Where("week = ? AND present = ?", week, true))
	}
	if err := query.Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
