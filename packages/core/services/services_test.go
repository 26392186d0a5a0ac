package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"owl-league/database"
	"owl-league/migrations"
	"owl-league/packages/core/cache"
	"owl-league/packages/core/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	week1 = "09/10/2024"
	week2 = "16/10/2024"
	week3 = "23/10/2024"
)

type fixture struct {
	db         *gorm.DB
	players    *PlayerService
	matches    *MatchService
	pairings   *PairingService
	attendance *AttendanceService
	weeks      *WeekLockService
	stats      *StatsService
	backups    *BackupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migrations.Run(db, logger))

	board := cache.NoopLeaderboard{}
	stats := NewStatsService(db)
	return &fixture{
		db:         db,
		players:    NewPlayerService(db, board, logger),
		matches:    NewMatchService(db, stats, board, logger),
		pairings:   NewPairingService(db, logger),
		attendance: NewAttendanceService(db, logger),
		weeks:      NewWeekLockService(db, logger),
		stats:      stats,
		backups:    NewBackupService(db, logger),
	}
}

func (f *fixture) player(t *testing.T, name string, rating float64) *models.Player {
	t.Helper()
	p, err := f.players.CreatePlayer(context.Background(), models.CreatePlayerRequest{Name: name, StartingRating: &rating})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }
