package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// LeaderboardSyncer rebuilds the cached leaderboard from the database.
type LeaderboardSyncer interface {
	SyncLeaderboard(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron     *cron.Cron
	syncer   LeaderboardSyncer
	syncSpec string
	logger   *slog.Logger
}

func NewScheduler(syncer LeaderboardSyncer, syncSpec string, logger *slog.Logger) *Scheduler {
	// Create cron with seconds precision and logging
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:     c,
		syncer:   syncer,
		syncSpec: syncSpec,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.syncSpec, s.runLeaderboardSync); err != nil {
		s.logger.Error("scheduling leaderboard sync", slog.String("spec", s.syncSpec), slog.Any("error", err))
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started", slog.String("leaderboard_sync", s.syncSpec))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron scheduler stopped")
}

func (s *Scheduler) runLeaderboardSync() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.syncer.SyncLeaderboard(ctx)
	if err != nil {
		s.logger.Error("leaderboard sync failed", slog.Any("error", err))
		return
	}
	s.logger.Info("leaderboard synced", slog.Int("players", count))
}

// RunNow runs the leaderboard sync immediately.
func (s *Scheduler) RunNow() {
	s.runLeaderboardSync()
}
