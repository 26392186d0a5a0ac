package services

import (
	"strings"

	"owl-league/database"
	"owl-league/packages/core/models"
	"owl-league/packages/core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate locks the selected rows until the transaction ends. sqlite
// serialises writers on its own and has no FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if database.IsPostgres(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// lockWeek serialises transactions that create the matches of one week.
func lockWeek(tx *gorm.DB, week string) error {
	if !database.IsPostgres(tx) {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "pairings:"+week).Error
}

func validateWeek(week string) error {
	if _, err := utils.ParseWeekID(week); err != nil {
		return detail(ErrInvalidWeek, "%s: %v", week, err)
	}
	return nil
}

// normalizeFaction maps blank to unset and rejects names outside the list.
func normalizeFaction(faction *string) (*string, error) {
	if faction == nil {
		return nil, nil
	}
	name := strings.TrimSpace(*faction)
	if name == "" {
		return nil, nil
	}
	if !models.IsKnownFaction(name) {
		return nil, detail(ErrInvalidFaction, "%q", name)
	}
	return &name, nil
}

// scoreFor converts a reported result into A's score.
func scoreFor(result string) (float64, error) {
	switch result {
	case models.ResultAWin:
		return 1.0, nil
	case models.ResultBWin:
		return 0.0, nil
	case models.ResultDraw:
		return 0.5, nil
	}
	return 0, ErrInvalidResult
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// findPlayers loads the players with ids, failing on the first missing one.
func findPlayers(tx *gorm.DB, ids []uint) (map[uint]models.Player, error) {
	var players []models.Player
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&players).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uint]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, detail(ErrPlayerNotFound, "id %d", id)
		}
	}
	return byID, nil
}

func float64Ptr(v float64) *float64 { return &v }
