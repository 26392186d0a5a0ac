package utils

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ByeMarker is the token closing a manual order with an unpaired player.
const ByeMarker = "BYE"

var (
	ErrEmptyManualOrder     = errors.New("manual order contains no player ids")
	ErrDuplicateManualID    = errors.New("manual order lists a player more than once")
	ErrInvalidManualToken   = errors.New("manual order contains a token that is not a player id")
	ErrMisplacedByeMarker   = errors.New("BYE may only close a manual order")
	ErrByeWithEvenPlayerSet = errors.New("BYE requires an odd number of players")
)

// Candidate is a player eligible for pairing.
type Candidate struct {
	ID     uint
	Rating float64
}

// Pairing is one board of a round; B is nil for a bye.
type Pairing struct {
	A uint
	B *uint
}

// SortByRating orders candidates by rating descending, then id ascending.
func SortByRating(candidates []Candidate) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// PairPlayers builds a round in one greedy pass over the rating-sorted pool.
// Each unpaired player takes the nearest-rated free opponent they have not met
// before, or the nearest free opponent when everyone left is a rematch. A
// player with nobody left gets the bye.
func PairPlayers(candidates []Candidate, past map[Pair]struct{}) []Pairing {
	sorted := SortByRating(candidates)
	used := make(map[uint]bool, len(sorted))
	pairings := make([]Pairing, 0, (len(sorted)+1)/2)

	for i, c := range sorted {
		if used[c.ID] {
			continue
		}

		opponent := -1
		for j := i + 1; j < len(sorted); j++ {
			if used[sorted[j].ID] {
				continue
			}
			if _, met := past[NewPair(c.ID, sorted[j].ID)]; !met {
				opponent = j
				break
			}
		}
		if opponent < 0 {
			for j := i + 1; j < len(sorted); j++ {
				if !used[sorted[j].ID] {
					opponent = j
					break
				}
			}
		}

		used[c.ID] = true
		if opponent < 0 {
			pairings = append(pairings, Pairing{A: c.ID})
			continue
		}
		b := sorted[opponent].ID
		used[b] = true
		pairings = append(pairings, Pairing{A: c.ID, B: &b})
	}

	return pairings
}

// ParseManualOrder reads a comma separated list of player ids, optionally
// closed by BYE, into consecutive pairings. An odd tail player gets the bye.
func ParseManualOrder(order string) ([]Pairing, error) {
	var ids []uint
	seen := make(map[uint]bool)
	hasBye := false

	for _, raw := range strings.Split(order, ",") {
		token := strings.ToUpper(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		if hasBye {
			return nil, ErrMisplacedByeMarker
		}
		if token == ByeMarker {
			hasBye = true
			continue
		}

		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidManualToken, token)
		}
		if seen[uint(id)] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateManualID, id)
		}
		seen[uint(id)] = true
		ids = append(ids, uint(id))
	}

	if len(ids) == 0 {
		return nil, ErrEmptyManualOrder
	}
	if hasBye && len(ids)%2 == 0 {
		return nil, ErrByeWithEvenPlayerSet
	}

	pairings := make([]Pairing, 0, (len(ids)+1)/2)
	for i := 0; i < len(ids); i += 2 {
		if i+1 < len(ids) {
			b := ids[i+1]
			pairings = append(pairings, Pairing{A: ids[i], B: &b})
		} else {
			pairings = append(pairings, Pairing{A: ids[i]})
		}
	}
	return pairings, nil
}

// FormatManualOrder writes ids in the form ParseManualOrder reads.
func FormatManualOrder(ids []uint, bye bool) string {
	tokens := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		tokens = append(tokens, strconv.FormatUint(uint64(id), 10))
	}
	if bye {
		tokens = append(tokens, ByeMarker)
	}
	return strings.Join(tokens, ",")
}
