package utils

import (
	"sort"

	"owl-league/packages/core/models"
)

// Pair is an unordered pair of player ids stored as {min, max}.
type Pair struct {
	Low  uint
	High uint
}

func NewPair(a, b uint) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// PastPairs indexes every two-sided pairing in matches, whatever its result.
func PastPairs(matches []models.Match) map[Pair]struct{} {
	pairs := make(map[Pair]struct{}, len(matches))
	for _, m := range matches {
		if m.IsBye() {
			continue
		}
		pairs[NewPair(m.PlayerAID, *m.PlayerBID)] = struct{}{}
	}
	return pairs
}

// TallyRecord counts wins, draws and losses of playerID over matches.
// A reported bye is a win for its recipient; pending matches count for nothing.
func TallyRecord(playerID uint, matches []models.Match) models.PlayerRecord {
	var rec models.PlayerRecord
	for _, m := range matches {
		if !m.Involves(playerID) || m.IsPending() {
			continue
		}
		if m.IsBye() {
			rec.Wins++
			continue
		}

		isA := m.PlayerAID == playerID
		switch m.Result {
		case models.ResultDraw:
			rec.Draws++
		case models.ResultAWin:
			if isA {
				rec.Wins++
			} else {
				rec.Losses++
			}
		case models.ResultBWin:
			if isA {
				rec.Losses++
			} else {
				rec.Wins++
			}
		}
	}
	return rec
}

// MostPlayedFaction returns the faction most often recorded for playerID on
// the side they played. Ties go to the alphabetically first name.
func MostPlayedFaction(playerID uint, matches []models.Match) (string, bool) {
	counts := make(map[string]int)
	for _, m := range matches {
		if m.PlayerAID == playerID && m.AFaction != nil && *m.AFaction != "" {
			counts[*m.AFaction]++
		}
		if m.PlayerBID != nil && *m.PlayerBID == playerID && m.BFaction != nil && *m.BFaction != "" {
			counts[*m.BFaction]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names[0], true
}
