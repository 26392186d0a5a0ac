package utils

import (
	"errors"
	"math"
)

// KFactor is the rating sensitivity a result is reported with.
type KFactor int

const (
	KCasual      KFactor = 10
	KCompetitive KFactor = 40
)

const (
	DefaultRating = 1000.0
	eloScale      = 400.0
)

var ErrNonFiniteRating = errors.New("rating must be a finite number")

// Valid reports whether k is one of the two allowed K-factors.
func (k KFactor) Valid() bool {
	return k == KCasual || k == KCompetitive
}

// ExpectedScore returns the probability that a player rated ratingSelf
// scores against ratingOpponent on the logistic curve with scale 400.
func ExpectedScore(ratingSelf, ratingOpponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingOpponent-ratingSelf)/eloScale))
}

// ApplyMatchResult returns the new ratings of A and B after a game where A
// scored scoreA (0, 0.5 or 1). Each side uses its own expected score.
func ApplyMatchResult(ratingA, ratingB, scoreA float64, k KFactor) (float64, float64, error) {
	if !isFinite(ratingA) || !isFinite(ratingB) {
		return 0, 0, ErrNonFiniteRating
	}

	expectedA := ExpectedScore(ratingA, ratingB)
	expectedB := ExpectedScore(ratingB, ratingA)
	scoreB := 1.0 - scoreA

	newA := ratingA + float64(k)*(scoreA-expectedA)
	newB := ratingB + float64(k)*(scoreB-expectedB)

	return newA, newB, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
