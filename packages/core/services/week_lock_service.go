package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"owl-league/packages/core/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WeekLockService gates result entry per week. Passwords are stored and
// compared in plaintext; the lock keeps honest members from editing the wrong
// week and is not an access control boundary.
type WeekLockService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWeekLockService(db *gorm.DB, logger *slog.Logger) *WeekLockService {
	return &WeekLockService{db: db, logger: logger}
}

func (s *WeekLockService) findKey(ctx context.Context, week string) (*models.WeekKey, error) {
	var key models.WeekKey
	if err := s.db.WithContext(ctx).Where("week = ?", week).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

func (s *WeekLockService) IsWeekLocked(ctx context.Context, week string) (bool, error) {
	if err := validateWeek(week); err != nil {
		return false, err
	}
	key, err := s.findKey(ctx, week)
	if err != nil {
		return false, err
	}
	return key != nil, nil
}

// SetWeekPassword sets or replaces the password of a week. A blank password
// clears it.
func (s *WeekLockService) SetWeekPassword(ctx context.Context, week, password string) error {
	if err := validateWeek(week); err != nil {
		return err
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return s.ClearWeekPassword(ctx, week)
	}

	nonce, err := newLockNonce()
	if err != nil {
		return err
	}
	key := models.WeekKey{Week: week, ResultsPassword: password, LockNonce: nonce}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"results_password", "lock_nonce"}),
	}).Create(&key).Error
	if err != nil {
		return err
	}

	s.logger.Info("week locked", slog.String("week", week))
	return nil
}

func (s *WeekLockService) ClearWeekPassword(ctx context.Context, week string) error {
	if err := validateWeek(week); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("week = ?", week).Delete(&models.WeekKey{}).Error; err != nil {
		return err
	}
	s.logger.Info("week unlocked", slog.String("week", week))
	return nil
}

// CurrentLock returns the nonce of the week's current password, or false when
// the week is open.
func (s *WeekLockService) CurrentLock(ctx context.Context, week string) (string, bool, error) {
	if err := validateWeek(week); err != nil {
		return "", false, err
	}
	key, err := s.findKey(ctx, week)
	if err != nil || key == nil {
		return "", false, err
	}
	return key.LockNonce, true, nil
}

// UnlockWeek checks attempt against the password of a locked week and returns
// the lock nonce an unlock token must carry. An open week has nothing to
// unlock and yields ErrWeekNotLocked.
func (s *WeekLockService) UnlockWeek(ctx context.Context, week, attempt string) (string, error) {
	if err := validateWeek(week); err != nil {
		return "", err
	}
	key, err := s.findKey(ctx, week)
	if err != nil {
		return "", err
	}
	if key == nil {
		return "", detail(ErrWeekNotLocked, "%s", week)
	}
	if strings.TrimSpace(attempt) != key.ResultsPassword {
		return "", ErrWrongWeekPassword
	}

	// keys written before nonces existed get one on first unlock
	if key.LockNonce == "" {
		nonce, err := newLockNonce()
		if err != nil {
			return "", err
		}
		res := s.db.WithContext(ctx).Model(&models.WeekKey{}).
			Where("id = ? AND lock_nonce = ?", key.ID, "").
			Update("lock_nonce", nonce)
		if res.Error != nil {
			return "", res.Error
		}
		if res.RowsAffected == 0 {
			return s.UnlockWeek(ctx, week, attempt)
		}
		key.LockNonce = nonce
	}
	return key.LockNonce, nil
}

func newLockNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
