package core

import (
	"log/slog"

	"owl-league/packages/core/cache"
	"owl-league/packages/core/cron"
	"owl-league/packages/core/handlers"
	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Guards are the auth middleware chains the routes are mounted behind.
type Guards struct {
	Admin    []gin.HandlerFunc
	Optional gin.HandlerFunc
}

type Module struct {
	PlayerHandler     *handlers.PlayerHandler
	PlayerService     *services.PlayerService
	MatchHandler      *handlers.MatchHandler
	MatchService      *services.MatchService
	PairingHandler    *handlers.PairingHandler
	PairingService    *services.PairingService
	AttendanceHandler *handlers.AttendanceHandler
	AttendanceService *services.AttendanceService
	WeekHandler       *handlers.WeekHandler
	WeekLockService   *services.WeekLockService
	StatsHandler      *handlers.StatsHandler
	StatsService      *services.StatsService
	BackupHandler     *handlers.BackupHandler
	BackupService     *services.BackupService
	Scheduler         *cron.Scheduler
	logger            *slog.Logger
}

func NewModule(db *gorm.DB, leaderboard cache.Leaderboard, leaderboardSyncSpec string, logger *slog.Logger) *Module {
	statsService := services.NewStatsService(db)
	statsHandler := handlers.NewStatsHandler(statsService)

	playerService := services.NewPlayerService(db, leaderboard, logger)
	playerHandler := handlers.NewPlayerHandler(playerService, statsService)

	weekLockService := services.NewWeekLockService(db, logger)
	weekHandler := handlers.NewWeekHandler(weekLockService)

	matchService := services.NewMatchService(db, statsService, leaderboard, logger)
	matchHandler := handlers.NewMatchHandler(matchService, weekLockService)

	pairingService := services.NewPairingService(db, logger)
	pairingHandler := handlers.NewPairingHandler(pairingService)

	attendanceService := services.NewAttendanceService(db, logger)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	backupService := services.NewBackupService(db, logger)
	backupHandler := handlers.NewBackupHandler(backupService)

	scheduler := cron.NewScheduler(playerService, leaderboardSyncSpec, logger)

	return &Module{
		PlayerHandler:     playerHandler,
		PlayerService:     playerService,
		MatchHandler:      matchHandler,
		MatchService:      matchService,
		PairingHandler:    pairingHandler,
		PairingService:    pairingService,
		AttendanceHandler: attendanceHandler,
		AttendanceService: attendanceService,
		WeekHandler:       weekHandler,
		WeekLockService:   weekLockService,
		StatsHandler:      statsHandler,
		StatsService:      statsService,
		BackupHandler:     backupHandler,
		BackupService:     backupService,
		Scheduler:         scheduler,
		logger:            logger,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine, guards Guards) {
	admin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards.Admin...), h)
	}

	players := r.Group("/players")
	{
		players.GET("", m.PlayerHandler.GetAllPlayers)
		players.GET("/top", m.PlayerHandler.GetTopPlayers)
		players.GET("/:id", m.PlayerHandler.GetPlayer)
		players.GET("/:id/record", m.PlayerHandler.GetPlayerRecord)
		players.POST("", admin(m.PlayerHandler.CreatePlayer)...)
		players.PATCH("/:id/faction", admin(m.PlayerHandler.UpdateFaction)...)
		players.PATCH("/:id/archive", admin(m.PlayerHandler.ArchivePlayer)...)
		players.PATCH("/:id/restore", admin(m.PlayerHandler.RestorePlayer)...)
		players.DELETE("/:id", admin(m.PlayerHandler.DeletePlayer)...)
	}

	matches := r.Group("/matches")
	{
		matches.GET("", m.MatchHandler.GetMatches)
		matches.GET("/week", m.MatchHandler.GetWeekMatches)
		matches.GET("/:id", m.MatchHandler.GetMatch)
		matches.GET("/:id/factions", m.MatchHandler.SuggestFactions)
		matches.POST("/:id/result", guards.Optional, m.MatchHandler.RecordResult)
		matches.POST("", admin(m.MatchHandler.CreateAdHocMatch)...)
		matches.POST("/reset-week", admin(m.MatchHandler.ResetWeek)...)
		matches.POST("/delete", admin(m.MatchHandler.DeleteMatches)...)
	}

	pairings := r.Group("/pairings")
	{
		pairings.POST("/generate", admin(m.PairingHandler.GeneratePairings)...)
		pairings.POST("/manual", admin(m.PairingHandler.ApplyManualPairings)...)
	}

	attendance := r.Group("/attendance")
	{
		attendance.GET("", m.AttendanceHandler.GetAttendance)
		attendance.PUT("", admin(m.AttendanceHandler.SaveAttendance)...)
		attendance.DELETE("", admin(m.AttendanceHandler.ClearAttendance)...)
	}

	weeks := r.Group("/weeks")
	{
		weeks.GET("/current", m.WeekHandler.GetCurrentWeek)
		weeks.GET("/status", m.WeekHandler.GetWeekStatus)
		weeks.PUT("/password", admin(m.WeekHandler.SetWeekPassword)...)
		weeks.DELETE("/password", admin(m.WeekHandler.ClearWeekPassword)...)
	}

	r.GET("/stats", m.StatsHandler.GetStats)
	r.GET("/leaderboard", m.StatsHandler.GetLeaderboard)
	r.GET("/factions", m.StatsHandler.GetFactions)
	r.GET("/admin/backup", admin(m.BackupHandler.GetBackup)...)
}

// StartScheduler starts the leaderboard cache resync
func (m *Module) StartScheduler() error {
	m.logger.Info("starting core module scheduler")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	m.Scheduler.Stop()
}
