package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScoreIsComplementary(t *testing.T) {
	ratings := []float64{0, 400, 875.5, 1000, 1200, 1633.2, 2400, 3000}
	for _, ra := range ratings {
		for _, rb := range ratings {
			sum := ExpectedScore(ra, rb) + ExpectedScore(rb, ra)
			assert.InDelta(t, 1.0, sum, 1e-12, "ra=%v rb=%v", ra, rb)
		}
	}
}

func TestExpectedScoreEqualRatings(t *testing.T) {
	for _, r := range []float64{400, 1000, 1500, 2800} {
		assert.Equal(t, 0.5, ExpectedScore(r, r))
	}
}

func TestExpectedScoreFavoursHigherRating(t *testing.T) {
	// 400 points ahead means ten-to-one odds
	assert.InDelta(t, 10.0/11.0, ExpectedScore(1400, 1000), 1e-12)
	assert.Less(t, ExpectedScore(1000, 1200), 0.5)
}

func TestApplyMatchResult(t *testing.T) {
	tests := []struct {
		name   string
		ra, rb float64
		scoreA float64
		k      KFactor
		check  func(t *testing.T, newA, newB float64)
	}{
		{
			name: "underdog win moves both ratings", ra: 1000, rb: 1200, scoreA: 1, k: KCompetitive,
			check: func(t *testing.T, newA, newB float64) {
				assert.Greater(t, newA, 1000.0)
				assert.Less(t, newB, 1200.0)
			},
		},
		{
			name: "equal ratings win with k40", ra: 1000, rb: 1000, scoreA: 1, k: KCompetitive,
			check: func(t *testing.T, newA, newB float64) {
				assert.InDelta(t, 1020.0, newA, 1e-9)
				assert.InDelta(t, 980.0, newB, 1e-9)
			},
		},
		{
			name: "equal ratings draw is a no-op", ra: 1150, rb: 1150, scoreA: 0.5, k: KCompetitive,
			check: func(t *testing.T, newA, newB float64) {
				assert.Equal(t, 1150.0, newA)
				assert.Equal(t, 1150.0, newB)
			},
		},
		{
			name: "casual loss", ra: 1000, rb: 1000, scoreA: 0, k: KCasual,
			check: func(t *testing.T, newA, newB float64) {
				assert.InDelta(t, 995.0, newA, 1e-9)
				assert.InDelta(t, 1005.0, newB, 1e-9)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newA, newB, err := ApplyMatchResult(tt.ra, tt.rb, tt.scoreA, tt.k)
			require.NoError(t, err)
			tt.check(t, newA, newB)
			// rating is conserved between the two sides
			assert.InDelta(t, tt.ra+tt.rb, newA+newB, 1e-9)
		})
	}
}

func TestApplyMatchResultRejectsNonFiniteRatings(t *testing.T) {
	_, _, err := ApplyMatchResult(math.NaN(), 1000, 1, KCasual)
	assert.ErrorIs(t, err, ErrNonFiniteRating)

	_, _, err = ApplyMatchResult(1000, math.Inf(1), 1, KCasual)
	assert.ErrorIs(t, err, ErrNonFiniteRating)
}

func TestKFactorValid(t *testing.T) {
	assert.True(t, KCasual.Valid())
	assert.True(t, KCompetitive.Valid())
	assert.False(t, KFactor(32).Valid())
	assert.False(t, KFactor(0).Valid())
}
