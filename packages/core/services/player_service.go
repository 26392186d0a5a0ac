package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"owl-league/packages/core/cache"
	"owl-league/packages/core/models"
	"owl-league/packages/core/utils"

	"gorm.io/gorm"
)

const (
	minStartingRating = 400.0
	maxStartingRating = 3000.0
)

type PlayerService struct {
	db          *gorm.DB
	leaderboard cache.Leaderboard
	logger      *slog.Logger
}

func NewPlayerService(db *gorm.DB, leaderboard cache.Leaderboard, logger *slog.Logger) *PlayerService {
	return &PlayerService{
		db:          db,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

func (s *PlayerService) GetPlayerByID(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player

	result := s.db.WithContext(ctx).First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, result.Error
	}

	return &player, nil
}

func (s *PlayerService) CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidPlayerName
	}

	rating := utils.DefaultRating
	if req.StartingRating != nil {
		rating = *req.StartingRating
		if rating < minStartingRating || rating > maxStartingRating {
			return nil, ErrInvalidRating
		}
	}

	faction, err := normalizeFaction(req.Faction)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		Name:    name,
		Rating:  rating,
		Active:  true,
		Faction: faction,
	}
	if err := s.db.WithContext(ctx).Create(player).Error; err != nil {
		return nil, err
	}

	s.cacheRatings(ctx, map[uint]float64{player.ID: player.Rating})
	return player, nil
}

// ListPlayers returns players by rating, highest first; equal ratings by id.
func (s *PlayerService) ListPlayers(ctx context.Context, includeArchived bool) ([]models.Player, error) {
	var players []models.Player

	query := s.db.WithContext(ctx).Order("rating DESC").Order("id ASC")
	if !includeArchived {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&players).Error; err != nil {
		return nil, err
	}

	return players, nil
}

func (s *PlayerService) UpdateFaction(ctx context.Context, id uint, faction *string) (*models.Player, error) {
	normalized, err := normalizeFaction(faction)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).Update("faction", normalized)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPlayerNotFound
	}

	return s.GetPlayerByID(ctx, id)
}

func (s *PlayerService) ArchivePlayer(ctx context.Context, id uint) (*models.Player, error) {
	return s.setActive(ctx, id, false)
}

func (s *PlayerService) RestorePlayer(ctx context.Context, id uint) (*models.Player, error) {
	return s.setActive(ctx, id, true)
}

func (s *PlayerService) setActive(ctx context.Context, id uint, active bool) (*models.Player, error) {
	player, err := s.GetPlayerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(player).Update("active", active).Error; err != nil {
		return nil, err
	}
	player.Active = active

	if active {
		s.cacheRatings(ctx, map[uint]float64{player.ID: player.Rating})
	} else if err := s.leaderboard.Remove(ctx, player.ID); err != nil {
		s.logger.Warn("leaderboard cache update failed", slog.Uint64("player_id", uint64(player.ID)), slog.Any("error", err))
	}

	return player, nil
}

// DeletePlayer removes a player for good. Without cascade it refuses when any
// match or attendance row still references the player; with cascade those rows
// go in the same transaction.
func (s *PlayerService) DeletePlayer(ctx context.Context, id uint, cascade bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var player models.Player
		if err := forUpdate(tx).First(&player, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		const involves = "player_a_id = ? OR player_b_id = ?"

		if cascade {
			if err := tx.Where(involves, id, id).Delete(&models.Match{}).Error; err != nil {
				return err
			}
			if err := tx.Where("player_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
				return err
			}
		} else {
			var matchCount, attendanceCount int64
			if err := tx.Model(&models.Match{}).Where(involves, id, id).Count(&matchCount).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Attendance{}).Where("player_id = ?", id).Count(&attendanceCount).Error; err != nil {
				return err
			}
			if matchCount > 0 || attendanceCount > 0 {
				return detail(ErrPlayerHasHistory, "%d matches, %d attendance rows", matchCount, attendanceCount)
			}
		}

		return tx.Delete(&player).Error
	})
	if err != nil {
		return err
	}

	if err := s.leaderboard.Remove(ctx, id); err != nil {
		s.logger.Warn("leaderboard cache update failed", slog.Uint64("player_id", uint64(id)), slog.Any("error", err))
	}
	return nil
}

// GetTopPlayers serves the top of the leaderboard from the cache when it is
// populated, and from the database otherwise.
func (s *PlayerService) GetTopPlayers(ctx context.Context, limit int) ([]models.Player, error) {
	entries, err := s.leaderboard.Top(ctx, int64(limit))
	if err != nil {
		s.logger.Warn("leaderboard cache read failed", slog.Any("error", err))
	}

	if len(entries) > 0 {
		ids := make([]uint, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.PlayerID)
		}
		var players []models.Player
		if err := s.db.WithContext(ctx).Where("id IN ? AND active = ?", ids, true).Find(&players).Error; err != nil {
			return nil, err
		}
		byID := make(map[uint]models.Player, len(players))
		for _, p := range players {
			byID[p.ID] = p
		}
		top := make([]models.Player, 0, len(players))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				top = append(top, p)
			}
		}
		return top, nil
	}

	var players []models.Player
	err = s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("rating DESC").Order("id ASC").
		Limit(limit).
		Find(&players).Error
	return players, err
}

// SyncLeaderboard rebuilds the cached leaderboard from the active players.
func (s *PlayerService) SyncLeaderboard(ctx context.Context) (int, error) {
	players, err := s.ListPlayers(ctx, false)
	if err != nil {
		return 0, err
	}
	ratings := make(map[uint]float64, len(players))
	for _, p := range players {
		ratings[p.ID] = p.Rating
	}
	if err := s.leaderboard.Replace(ctx, ratings); err != nil {
		return 0, err
	}
	return len(ratings), nil
}

func (s *PlayerService) cacheRatings(ctx context.Context, ratings map[uint]float64) {
	if err := s.leaderboard.SetRatings(ctx, ratings); err != nil {
		s.logger.Warn("leaderboard cache update failed", slog.Any("error", err))
	}
}
