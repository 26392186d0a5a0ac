package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"owl-league/packages/core/cache"
	"owl-league/packages/core/models"
	"owl-league/packages/core/utils"

	"gorm.io/gorm"
)

// ResultInput is a result as reported for one match.
type ResultInput struct {
	Result   string
	KFactor  utils.KFactor
	AFaction *string
	BFaction *string
}

// AdHocInput describes a match created and reported in one step.
type AdHocInput struct {
	Week      string
	PlayerAID uint
	PlayerBID uint
	ResultInput
}

type MatchService struct {
	db          *gorm.DB
	stats       *StatsService
	leaderboard cache.Leaderboard
	logger      *slog.Logger
}

func NewMatchService(db *gorm.DB, stats *StatsService, leaderboard cache.Leaderboard, logger *slog.Logger) *MatchService {
	return &MatchService{
		db:          db,
		stats:       stats,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

func (s *MatchService) GetMatchByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	if err := s.db.WithContext(ctx).First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

// ListMatches returns the match history, most recent week first and, within
// a week, newest match first. An empty week lists every week.
func (s *MatchService) ListMatches(ctx context.Context, week string) ([]models.Match, error) {
	var matches []models.Match

	query := s.db.WithContext(ctx).Order("id DESC")
	if week != "" {
		if err := validateWeek(week); err != nil {
			return nil, err
		}
		query = query.Where("week = ?", week)
	}
	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}

	// week ids are DD/MM/YYYY, so order by the date they name
	sort.SliceStable(matches, func(i, j int) bool {
		return weekTime(matches[i].Week).After(weekTime(matches[j].Week))
	})
	return matches, nil
}

func weekTime(week string) time.Time {
	t, err := time.Parse(utils.WeekLayout, week)
	if err != nil {
		return time.Time{}
	}
	return t
}

// GetWeekMatches returns the pairings of one week in creation order.
func (s *MatchService) GetWeekMatches(ctx context.Context, week string) ([]models.Match, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := s.db.WithContext(ctx).Where("week = ?", week).Order("id ASC").Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// RecordResult reports a pending match and applies the rating change, both in
// one transaction. The pending check is repeated by the guarded UPDATE so a
// concurrent reporter can never apply a second result.
func (s *MatchService) RecordResult(ctx context.Context, matchID uint, in ResultInput) (*models.Match, error) {
	aFaction, err := normalizeFaction(in.AFaction)
	if err != nil {
		return nil, err
	}
	bFaction, err := normalizeFaction(in.BFaction)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var match models.Match
	if err := forUpdate(tx).First(&match, matchID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if !match.IsPending() {
		tx.Rollback()
		return nil, ErrAlreadyRecorded
	}

	var playerA models.Player
	if err := forUpdate(tx).First(&playerA, match.PlayerAID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(ErrPlayerNotFound, "id %d", match.PlayerAID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"a_rating_before": playerA.Rating,
		"reported_at":     now,
		"a_faction":       aFaction,
	}
	newRatings := map[uint]float64{}

	if match.IsBye() {
		// a bye is a win with no rating change and no K
		updates["result"] = models.ResultAWin
		updates["a_rating_after"] = playerA.Rating
		updates["k_factor_used"] = nil
		updates["b_faction"] = nil
	} else {
		scoreA, err := scoreFor(in.Result)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if !in.KFactor.Valid() {
			tx.Rollback()
			return nil, ErrInvalidKFactor
		}

		var playerB models.Player
		if err := forUpdate(tx).First(&playerB, *match.PlayerBID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, detail(ErrPlayerNotFound, "id %d", *match.PlayerBID)
			}
			return nil, err
		}

		newA, newB, err := utils.ApplyMatchResult(playerA.Rating, playerB.Rating, scoreA, in.KFactor)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		updates["result"] = in.Result
		updates["b_rating_before"] = playerB.Rating
		updates["a_rating_after"] = newA
		updates["b_rating_after"] = newB
		updates["k_factor_used"] = int(in.KFactor)
		updates["b_faction"] = bFaction

		if err := setRating(tx, playerA.ID, newA); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := setRating(tx, playerB.ID, newB); err != nil {
			tx.Rollback()
			return nil, err
		}
		if playerA.Active {
			newRatings[playerA.ID] = newA
		}
		if playerB.Active {
			newRatings[playerB.ID] = newB
		}
	}

	result := tx.Model(&models.Match{}).
		Where("id = ? AND result = ?", match.ID, models.ResultPending).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrAlreadyRecorded
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.logger.Info("result recorded",
		slog.Uint64("match_id", uint64(match.ID)),
		slog.String("week", match.Week),
		slog.Any("result", updates["result"]),
		slog.Any("k_factor", updates["k_factor_used"]),
	)
	s.cacheRatings(ctx, newRatings)

	return s.GetMatchByID(ctx, match.ID)
}

// CreateAdHocMatch records a game played outside the weekly pairings: the
// match is created already reported and both ratings move in the same
// transaction.
func (s *MatchService) CreateAdHocMatch(ctx context.Context, in AdHocInput) (*models.Match, error) {
	if err := validateWeek(in.Week); err != nil {
		return nil, err
	}
	if in.PlayerAID == in.PlayerBID {
		return nil, ErrSamePlayer
	}
	scoreA, err := scoreFor(in.Result)
	if err != nil {
		return nil, err
	}
	if !in.KFactor.Valid() {
		return nil, ErrInvalidKFactor
	}
	aFaction, err := normalizeFaction(in.AFaction)
	if err != nil {
		return nil, err
	}
	bFaction, err := normalizeFaction(in.BFaction)
	if err != nil {
		return nil, err
	}

	var match models.Match
	newRatings := map[uint]float64{}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		players, err := findPlayers(forUpdate(tx), []uint{in.PlayerAID, in.PlayerBID})
		if err != nil {
			return err
		}
		playerA, playerB := players[in.PlayerAID], players[in.PlayerBID]

		newA, newB, err := utils.ApplyMatchResult(playerA.Rating, playerB.Rating, scoreA, in.KFactor)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		k := int(in.KFactor)
		playerBID := playerB.ID
		match = models.Match{
			Week:          in.Week,
			PlayerAID:     playerA.ID,
			PlayerBID:     &playerBID,
			Result:        in.Result,
			ARatingBefore: float64Ptr(playerA.Rating),
			BRatingBefore: float64Ptr(playerB.Rating),
			ARatingAfter:  float64Ptr(newA),
			BRatingAfter:  float64Ptr(newB),
			ReportedAt:    &now,
			KFactorUsed:   &k,
			AFaction:      aFaction,
			BFaction:      bFaction,
		}
		if err := tx.Create(&match).Error; err != nil {
			return err
		}

		if err := setRating(tx, playerA.ID, newA); err != nil {
			return err
		}
		if err := setRating(tx, playerB.ID, newB); err != nil {
			return err
		}
		if playerA.Active {
			newRatings[playerA.ID] = newA
		}
		if playerB.Active {
			newRatings[playerB.ID] = newB
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ad-hoc match recorded", slog.Uint64("match_id", uint64(match.ID)), slog.String("week", match.Week))
	s.cacheRatings(ctx, newRatings)
	return &match, nil
}

// ResetWeek deletes the pending pairings of a week, and the reported ones too
// when includeReported is set. Ratings already applied are not reverted.
func (s *MatchService) ResetWeek(ctx context.Context, week string, includeReported bool) (int64, error) {
	if err := validateWeek(week); err != nil {
		return 0, err
	}

	query := s.db.WithContext(ctx).Where("week = ?", week)
	if !includeReported {
		query = query.Where("result = ?", models.ResultPending)
	}
	result := query.Delete(&models.Match{})
	if result.Error != nil {
		return 0, result.Error
	}

	s.logger.Info("week reset", slog.String("week", week), slog.Int64("deleted", result.RowsAffected), slog.Bool("include_reported", includeReported))
	return result.RowsAffected, nil
}

// DeleteMatches removes selected pairings, typically no-shows. Reported
// matches are skipped unless allowReported is set.
func (s *MatchService) DeleteMatches(ctx context.Context, ids []uint, allowReported bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := s.db.WithContext(ctx).Where("id IN ?", ids)
	if !allowReported {
		query = query.Where("result = ?", models.ResultPending)
	}
	result := query.Delete(&models.Match{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SuggestFactions returns the faction-picker defaults for a match: the
// faction stored on the match, else the player's most played faction, else
// the player's default faction.
func (s *MatchService) SuggestFactions(ctx context.Context, matchID uint) (*models.FactionSuggestion, error) {
	match, err := s.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	suggestion := &models.FactionSuggestion{MatchID: match.ID}

	suggestion.AFaction, err = s.suggestFor(ctx, match.PlayerAID, match.AFaction)
	if err != nil {
		return nil, err
	}
	if match.PlayerBID != nil {
		suggestion.BFaction, err = s.suggestFor(ctx, *match.PlayerBID, match.BFaction)
		if err != nil {
			return nil, err
		}
	}
	return suggestion, nil
}

func (s *MatchService) suggestFor(ctx context.Context, playerID uint, stored *string) (*string, error) {
	if stored != nil && *stored != "" {
		return stored, nil
	}
	if faction, err := s.stats.GetMostPlayedFaction(ctx, playerID); err != nil && !errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	} else if faction != nil {
		return faction, nil
	}

	var player models.Player
	if err := s.db.WithContext(ctx).First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return player.Faction, nil
}

func setRating(tx *gorm.DB, playerID uint, rating float64) error {
	return tx.Model(&models.Player{}).Where("id = ?", playerID).Update("rating", rating).Error
}

func (s *MatchService) cacheRatings(ctx context.Context, ratings map[uint]float64) {
	if len(ratings) == 0 {
		return
	}
	if err := s.leaderboard.SetRatings(ctx, ratings); err != nil {
		s.logger.Warn("leaderboard cache update failed", slog.Any("error", err))
	}
}
