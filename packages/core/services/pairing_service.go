package services

import (
	"context"
	"log/slog"

	"owl-league/packages/core/models"
	"owl-league/packages/core/utils"

	"gorm.io/gorm"
)

type PairingService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPairingService(db *gorm.DB, logger *slog.Logger) *PairingService {
	return &PairingService{db: db, logger: logger}
}

// GeneratePairings builds and stores the round of a week as pending matches.
// A nil playerIDs pairs the week's eligible pool. The week must have no
// matches yet; the check and the inserts share one transaction.
func (s *PairingService) GeneratePairings(ctx context.Context, week string, playerIDs []uint) ([]models.Match, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}

	var matches []models.Match
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockWeek(tx, week); err != nil {
			return err
		}
		if err := ensureWeekEmpty(tx, week); err != nil {
			return err
		}

		ids := dedupe(playerIDs)
		if playerIDs == nil {
			var err error
			if ids, err = eligiblePlayerIDs(tx, week); err != nil {
				return err
			}
		}
		if len(ids) == 0 {
			return nil
		}

		players, err := findPlayers(tx, ids)
		if err != nil {
			return err
		}
		candidates := make([]utils.Candidate, 0, len(ids))
		for _, id := range ids {
			p := players[id]
			if !p.Active {
				return detail(ErrInactivePlayer, "id %d", id)
			}
			candidates = append(candidates, utils.Candidate{ID: p.ID, Rating: p.Rating})
		}

		past, err := pastPairs(tx)
		if err != nil {
			return err
		}

		matches, err = insertPairings(tx, week, utils.PairPlayers(candidates, past))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pairings generated", slog.String("week", week), slog.Int("matches", len(matches)))
	return matches, nil
}

// ApplyManualPairings stores an administrator's explicit round, parsed from a
// comma separated id list optionally closed by BYE. Archived players are
// refused; attendance is not consulted. With clearPending the week's pending
// matches are dropped first; otherwise the week must be empty.
func (s *PairingService) ApplyManualPairings(ctx context.Context, week, order string, clearPending bool) ([]models.Match, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	pairings, err := utils.ParseManualOrder(order)
	if err != nil {
		return nil, detail(ErrInvalidManualOrder, "%v", err)
	}

	ids := make([]uint, 0, len(pairings)*2)
	for _, p := range pairings {
		ids = append(ids, p.A)
		if p.B != nil {
			ids = append(ids, *p.B)
		}
	}

	var matches []models.Match
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockWeek(tx, week); err != nil {
			return err
		}
		players, err := findPlayers(tx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !players[id].Active {
				return detail(ErrInactivePlayer, "id %d", id)
			}
		}

		if clearPending {
			if err := tx.Where("week = ? AND result = ?", week, models.ResultPending).Delete(&models.Match{}).Error; err != nil {
				return err
			}
		} else if err := ensureWeekEmpty(tx, week); err != nil {
			return err
		}

		matches, err = insertPairings(tx, week, pairings)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual pairings applied", slog.String("week", week), slog.Int("matches", len(matches)), slog.Bool("clear_pending", clearPending))
	return matches, nil
}

func ensureWeekEmpty(tx *gorm.DB, week string) error {
	var existing int64
	if err := tx.Model(&models.Match{}).Where("week = ?", week).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return detail(ErrPairingsExist, "%s has %d matches", week, existing)
	}
	return nil
}

func insertPairings(tx *gorm.DB, week string, pairings []utils.Pairing) ([]models.Match, error) {
	matches := make([]models.Match, 0, len(pairings))
	for _, p := range pairings {
		matches = append(matches, models.Match{
			Week:      week,
			PlayerAID: p.A,
			PlayerBID: p.B,
			Result:    models.ResultPending,
		})
	}
	if len(matches) == 0 {
		return matches, nil
	}
	if err := tx.Create(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}
