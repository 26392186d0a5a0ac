package utils

import (
	"testing"

	"owl-league/packages/core/models"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

func TestTallyRecord(t *testing.T) {
	matches := []models.Match{
		{PlayerAID: 1, PlayerBID: uintPtr(2), Result: models.ResultAWin},
		{PlayerAID: 3, PlayerBID: uintPtr(1), Result: models.ResultAWin},
		{PlayerAID: 1, PlayerBID: uintPtr(4), Result: models.ResultDraw},
		{PlayerAID: 5, PlayerBID: uintPtr(1), Result: models.ResultBWin},
		{PlayerAID: 1, PlayerBID: uintPtr(6), Result: models.ResultPending},
		{PlayerAID: 1, Result: models.ResultAWin},    // reported bye
		{PlayerAID: 1, Result: models.ResultPending}, // pending bye
		{PlayerAID: 7, PlayerBID: uintPtr(8), Result: models.ResultAWin},
	}

	rec := TallyRecord(1, matches)
	assert.Equal(t, models.PlayerRecord{Wins: 3, Draws: 1, Losses: 1}, rec)
	assert.Equal(t, 5, rec.GamesPlayed())

	assert.Equal(t, models.PlayerRecord{Losses: 1}, TallyRecord(2, matches))
	assert.Equal(t, models.PlayerRecord{}, TallyRecord(6, matches))
}

func TestPastPairsSkipsByes(t *testing.T) {
	matches := []models.Match{
		{PlayerAID: 2, PlayerBID: uintPtr(1), Result: models.ResultPending},
		{PlayerAID: 1, PlayerBID: uintPtr(2), Result: models.ResultAWin},
		{PlayerAID: 3},
	}
	pairs := PastPairs(matches)
	assert.Len(t, pairs, 1)
	assert.Contains(t, pairs, NewPair(1, 2))
	assert.Equal(t, NewPair(2, 1), NewPair(1, 2))
}

func TestMostPlayedFaction(t *testing.T) {
	empire, dwarfs := "Empire of Man", "Dwarfen Mountain Holds"

	t.Run("highest count", func(t *testing.T) {
		matches := []models.Match{
			{PlayerAID: 1, AFaction: strPtr(empire)},
			{PlayerAID: 1, AFaction: strPtr(empire)},
			{PlayerAID: 2, PlayerBID: uintPtr(1), AFaction: strPtr(dwarfs), BFaction: strPtr(empire)},
			{PlayerAID: 1, PlayerBID: uintPtr(2), AFaction: strPtr(dwarfs)},
		}
		got, ok := MostPlayedFaction(1, matches)
		assert.True(t, ok)
		assert.Equal(t, empire, got)
	})

	t.Run("tie goes alphabetical", func(t *testing.T) {
		matches := []models.Match{
			{PlayerAID: 1, AFaction: strPtr(empire)},
			{PlayerAID: 1, AFaction: strPtr(empire)},
			{PlayerAID: 1, AFaction: strPtr(dwarfs)},
			{PlayerAID: 3, PlayerBID: uintPtr(1), BFaction: strPtr(dwarfs)},
		}
		got, ok := MostPlayedFaction(1, matches)
		assert.True(t, ok)
		assert.Equal(t, dwarfs, got)
	})

	t.Run("opponent side is not counted", func(t *testing.T) {
		matches := []models.Match{
			{PlayerAID: 2, PlayerBID: uintPtr(1), AFaction: strPtr(empire)},
			{PlayerAID: 1, AFaction: strPtr("")},
		}
		_, ok := MostPlayedFaction(1, matches)
		assert.False(t, ok)
	})
}
