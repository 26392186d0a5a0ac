package fixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"owl-league/database"
	"owl-league/migrations"
	"owl-league/packages/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndClear(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migrations.Run(db, logger))

	f := NewFixtures(db, logger, 42)
	now := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.GenerateTestData(context.Background(), 4, now))

	var players, pending, weekKeys int64
	require.NoError(t, db.Model(&models.Player{}).Count(&players).Error)
	assert.EqualValues(t, len(fixturePlayers), players)

	var weeks []string
	require.NoError(t, db.Model(&models.Match{}).Distinct("week").Pluck("week", &weeks).Error)
	assert.Len(t, weeks, 4)

	require.NoError(t, db.Model(&models.Match{}).Where("result = ?", models.ResultPending).Count(&pending).Error)
	var current int64
	require.NoError(t, db.Model(&models.Match{}).Where("week = ?", "16/10/2024").Count(&current).Error)
	assert.Equal(t, current, pending)

	require.NoError(t, db.Model(&models.WeekKey{}).Count(&weekKeys).Error)
	assert.EqualValues(t, 1, weekKeys)

	require.NoError(t, f.ClearAllData())
	require.NoError(t, db.Model(&models.Player{}).Count(&players).Error)
	assert.Zero(t, players)
}
