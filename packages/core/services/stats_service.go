package services

import (
	"context"
	"errors"

	"owl-league/packages/core/models"
	"owl-league/packages/core/utils"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) playerMatches(ctx context.Context, playerID uint) ([]models.Match, error) {
	var player models.Player
	if err := s.db.WithContext(ctx).Select("id").First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	var matches []models.Match
	err := s.db.WithContext(ctx).
		Where("player_a_id = ? OR player_b_id = ?", playerID, playerID).
		Find(&matches).Error
	return matches, err
}

// GetPlayerRecord returns the win/draw/loss tally of a player over all
// reported matches.
func (s *StatsService) GetPlayerRecord(ctx context.Context, playerID uint) (models.PlayerRecord, error) {
	matches, err := s.playerMatches(ctx, playerID)
	if err != nil {
		return models.PlayerRecord{}, err
	}
	return utils.TallyRecord(playerID, matches), nil
}

// GetMostPlayedFaction returns nil when the player never had a faction
// recorded.
func (s *StatsService) GetMostPlayedFaction(ctx context.Context, playerID uint) (*string, error) {
	matches, err := s.playerMatches(ctx, playerID)
	if err != nil {
		return nil, err
	}
	faction, ok := utils.MostPlayedFaction(playerID, matches)
	if !ok {
		return nil, nil
	}
	return &faction, nil
}

// PastPairs returns every pair of players that has ever been paired.
func (s *StatsService) PastPairs(ctx context.Context) (map[utils.Pair]struct{}, error) {
	return pastPairs(s.db.WithContext(ctx))
}

func pastPairs(tx *gorm.DB) (map[utils.Pair]struct{}, error) {
	var matches []models.Match
	if err := tx.Select("player_a_id", "player_b_id").Where("player_b_id IS NOT NULL").Find(&matches).Error; err != nil {
		return nil, err
	}
	return utils.PastPairs(matches), nil
}

// Leaderboard ranks players by rating, ties by id, each with their record and
// default faction.
func (s *StatsService) Leaderboard(ctx context.Context, includeArchived bool) ([]models.LeaderboardRow, error) {
	var players []models.Player
	query := s.db.WithContext(ctx).Order("rating DESC").Order("id ASC")
	if !includeArchived {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&players).Error; err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := s.db.WithContext(ctx).Where("result <> ?", models.ResultPending).Find(&matches).Error; err != nil {
		return nil, err
	}

	byPlayer := make(map[uint][]models.Match)
	for _, m := range matches {
		byPlayer[m.PlayerAID] = append(byPlayer[m.PlayerAID], m)
		if m.PlayerBID != nil {
			byPlayer[*m.PlayerBID] = append(byPlayer[*m.PlayerBID], m)
		}
	}

	rows := make([]models.LeaderboardRow, 0, len(players))
	for i, p := range players {
		rec := utils.TallyRecord(p.ID, byPlayer[p.ID])
		rows = append(rows, models.LeaderboardRow{
			Rank:        i + 1,
			PlayerID:    p.ID,
			Name:        p.Name,
			Faction:     p.Faction,
			Rating:      p.Rating,
			Active:      p.Active,
			GamesPlayed: rec.GamesPlayed(),
			Wins:        rec.Wins,
			Draws:       rec.Draws,
			Losses:      rec.Losses,
		})
	}
	return rows, nil
}

func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Player{}).Count(&stats.TotalPlayers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Player{}).Where("active = ?", true).Count(&stats.ActivePlayers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Match{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Match{}).Where("result = ?", models.ResultPending).Count(&stats.PendingMatches).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Match{}).Distinct("week").Count(&stats.WeeksPlayed).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
