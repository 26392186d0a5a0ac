package services

import (
	"context"
	"testing"

	"owl-league/packages/core/models"
	"owl-league/packages/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAndLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.player(t, "A", 1000)
	b := f.player(t, "B", 1000)
	c := f.player(t, "C", 1000)

	record := func(week string, pa, pb uint, result string) {
		_, err := f.matches.CreateAdHocMatch(ctx, AdHocInput{
			Week:        week,
			PlayerAID:   pa,
			PlayerBID:   pb,
			ResultInput: ResultInput{Result: result, KFactor: utils.KCasual, AFaction: strPtr("Skaven"), BFaction: strPtr("Lizardmen")},
		})
		require.NoError(t, err)
	}
	record(week1, a.ID, b.ID, models.ResultAWin)
	record(week2, b.ID, a.ID, models.ResultDraw)
	record(week2, c.ID, a.ID, models.ResultBWin)

	_, err := f.pairings.GeneratePairings(ctx, week3, []uint{a.ID, b.ID})
	require.NoError(t, err)

	rec, err := f.stats.GetPlayerRecord(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlayerRecord{Wins: 2, Draws: 1}, rec)

	// A played Skaven once as side A and Lizardmen twice as side B
	faction, err := f.stats.GetMostPlayedFaction(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, faction)
	assert.Equal(t, "Lizardmen", *faction)

	_, err = f.stats.GetPlayerRecord(ctx, 999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	past, err := f.stats.PastPairs(ctx)
	require.NoError(t, err)
	assert.Len(t, past, 2)
	assert.Contains(t, past, utils.NewPair(b.ID, a.ID))

	rows, err := f.stats.Leaderboard(ctx, false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, a.ID, rows[0].PlayerID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 3, rows[0].GamesPlayed)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, 3, rows[2].Rank)

	stats, err := f.stats.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{
		TotalPlayers:   3,
		ActivePlayers:  3,
		TotalMatches:   4,
		PendingMatches: 1,
		WeeksPlayed:    3,
	}, stats)
}

func TestMostPlayedFactionNone(t *testing.T) {
	f := newFixture(t)
	a := f.player(t, "A", 1000)
	faction, err := f.stats.GetMostPlayedFaction(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Nil(t, faction)
}
